// Package service orchestrates business record queries: listing, compliance
// filtering, summary counts, and details fetches.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"permitmap/internal/business/models"
	"permitmap/internal/business/store"
	"permitmap/internal/compliance"
	"permitmap/internal/platform/metrics"
	dErrors "permitmap/pkg/domain-errors"
	"permitmap/pkg/platform/sentinel"
	"permitmap/pkg/requestcontext"
)

// StatusCounts summarizes the record set by compliance status for the
// dashboard widgets.
type StatusCounts struct {
	Compliant    int `json:"compliant"`
	Pending      int `json:"pending"`
	Noncompliant int `json:"noncompliant"`
	Total        int `json:"total"`
}

// BusinessService is the record source the map layer consumes.
type BusinessService struct {
	records store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(records store.Store, logger *slog.Logger, m *metrics.Metrics) *BusinessService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BusinessService{records: records, logger: logger, metrics: m}
}

// ListAll returns every registered business record.
func (s *BusinessService) ListAll(ctx context.Context) ([]models.BusinessRecord, error) {
	records, err := s.records.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list businesses")
	}
	s.metrics.IncrementRecordsListed()
	return records, nil
}

// ListFiltered returns the records matching the compliance filter, classified
// against the request-scoped "now". The filter is re-evaluated on every call;
// results are never cached against a stale timestamp.
func (s *BusinessService) ListFiltered(ctx context.Context, filter compliance.Filter) ([]models.BusinessRecord, error) {
	records, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if filter == compliance.FilterAll {
		return records, nil
	}

	now := requestcontext.Now(ctx)
	filtered := make([]models.BusinessRecord, 0, len(records))
	for _, rec := range records {
		if filter.Matches(rec, now) {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// StatusCounts classifies the full record set at the request-scoped "now".
func (s *BusinessService) StatusCounts(ctx context.Context) (StatusCounts, error) {
	records, err := s.ListAll(ctx)
	if err != nil {
		return StatusCounts{}, err
	}

	now := requestcontext.Now(ctx)
	counts := StatusCounts{Total: len(records)}
	for _, rec := range records {
		switch compliance.Classify(rec, now) {
		case compliance.StatusCompliant:
			counts.Compliant++
		case compliance.StatusPending:
			counts.Pending++
		case compliance.StatusNoncompliant:
			counts.Noncompliant++
		}
	}
	return counts, nil
}

// GetDetails fetches the full details aggregate for one business.
func (s *BusinessService) GetDetails(ctx context.Context, businessID string) (*models.BusinessDetails, error) {
	businessID = strings.TrimSpace(businessID)
	if businessID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "business id is required")
	}

	start := time.Now()
	details, err := s.records.FindDetails(ctx, businessID)
	s.metrics.ObserveDetailsFetchMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementDetailsNotFound()
			return nil, dErrors.New(dErrors.CodeNotFound, "business not found")
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "business details fetch timed out")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load business details")
	}

	s.metrics.IncrementDetailsFetched()
	return details, nil
}
