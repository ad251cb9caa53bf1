// Package session tracks live map view sessions by ID.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"permitmap/internal/compliance"
	"permitmap/internal/mapview"
	dErrors "permitmap/pkg/domain-errors"
)

// Factory builds a fresh controller for a new session, pre-set to the
// requested compliance filter.
type Factory func(filter compliance.Filter) *mapview.Controller

// Manager owns the session table. Controllers synchronize themselves;
// the manager only guards the table.
type Manager struct {
	factory Factory
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*mapview.Controller
}

func NewManager(factory Factory, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		factory:  factory,
		logger:   logger,
		sessions: make(map[string]*mapview.Controller),
	}
}

// Mount creates and mounts a new session and returns its ID.
func (m *Manager) Mount(ctx context.Context, filter compliance.Filter) (string, *mapview.Controller, error) {
	ctrl := m.factory(filter)
	if err := ctrl.Mount(ctx); err != nil {
		ctrl.Dispose()
		return "", nil, err
	}

	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = ctrl
	m.mu.Unlock()

	m.logger.Info("map session mounted", "session_id", id, "filter", filter.String())
	return id, ctrl, nil
}

// Get returns the controller for a session ID.
func (m *Manager) Get(sessionID string) (*mapview.Controller, error) {
	m.mu.RLock()
	ctrl, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "map session not found")
	}
	return ctrl, nil
}

// Dispose tears a session down and removes it from the table.
func (m *Manager) Dispose(sessionID string) error {
	m.mu.Lock()
	ctrl, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "map session not found")
	}
	ctrl.Dispose()
	m.logger.Info("map session disposed", "session_id", sessionID)
	return nil
}

// DisposeAll tears down every session; used at shutdown.
func (m *Manager) DisposeAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*mapview.Controller)
	m.mu.Unlock()

	for id, ctrl := range sessions {
		ctrl.Dispose()
		m.logger.Debug("map session disposed", "session_id", id)
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
