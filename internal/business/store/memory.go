package store

import (
	"context"
	"fmt"
	"sync"

	"permitmap/internal/business/models"
	"permitmap/pkg/platform/sentinel"
)

// InMemory is the fixture-backed business record store. Records are
// immutable once added; ListAll returns copies so callers can never mutate
// the canonical set.
type InMemory struct {
	mu      sync.RWMutex
	order   []string
	records map[string]models.BusinessRecord
	details map[string]*models.BusinessDetails
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[string]models.BusinessRecord),
		details: make(map[string]*models.BusinessDetails),
	}
}

// Add inserts a record, optionally with its details aggregate. Insertion
// order is preserved by ListAll.
func (s *InMemory) Add(rec models.BusinessRecord, details *models.BusinessDetails) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return fmt.Errorf("business %s: %w", rec.ID, sentinel.ErrInvalidState)
	}
	s.records[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	if details != nil {
		s.details[rec.ID] = details
	}
	return nil
}

// ListAll returns all records in insertion order.
func (s *InMemory) ListAll(ctx context.Context) ([]models.BusinessRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.BusinessRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out, nil
}

// FindDetails returns the details aggregate for one business.
func (s *InMemory) FindDetails(ctx context.Context, businessID string) (*models.BusinessDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	details, ok := s.details[businessID]
	if !ok {
		return nil, fmt.Errorf("business %s details: %w", businessID, sentinel.ErrNotFound)
	}
	return details, nil
}
