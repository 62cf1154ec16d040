package route

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for route comparisons.
// Comparisons are immutable: there is no update operation.
type Repository interface {
	// Save persists a new comparison.
	Save(ctx context.Context, comparison *Comparison) error

	// FindByID retrieves a comparison by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Comparison, error)

	// FindByOwnerID retrieves comparisons belonging to a specific owner
	// with pagination, newest first.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*Comparison, int64, error)
}
