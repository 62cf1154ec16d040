package vehicle

import (
	"context"

	"github.com/google/uuid"
)

// VehicleRepository defines read access to stored vehicle records.
// Create/update/delete belong to the external inventory collaborator.
type VehicleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)
}
