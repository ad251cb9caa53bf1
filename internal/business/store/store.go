// Package store provides business record storage. The in-memory store backs
// the fixture data set; an optional Redis read-through cache decorates
// details lookups.
package store

import (
	"context"

	"permitmap/internal/business/models"
)

// Store is the business record source consumed by the service layer.
// Implementations return sentinel errors (pkg/platform/sentinel) for
// infrastructure facts; the service translates them into domain errors.
type Store interface {
	// ListAll returns every registered business record.
	ListAll(ctx context.Context) ([]models.BusinessRecord, error)

	// FindDetails returns the full details aggregate for one business.
	// Returns sentinel.ErrNotFound (possibly wrapped) for unknown ids.
	FindDetails(ctx context.Context, businessID string) (*models.BusinessDetails, error)
}
