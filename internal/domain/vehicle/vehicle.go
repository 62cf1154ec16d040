package vehicle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Vehicle is a stored vehicle record. Vehicle inventory is managed by an
// external collaborator; this service only reads records to resolve a
// fuel efficiency for planning requests.
type Vehicle struct {
	id             uuid.UUID
	ownerID        uuid.UUID
	make_          string
	model          string
	year           int
	fuelEfficiency float64
	createdAt      time.Time
	updatedAt      time.Time
}

// NewVehicle creates a vehicle record with validated fields.
func NewVehicle(
	ownerID uuid.UUID,
	make_, model string,
	year int,
	fuelEfficiency float64,
) (*Vehicle, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("owner ID is required")
	}
	if make_ == "" {
		return nil, fmt.Errorf("vehicle make is required")
	}
	if model == "" {
		return nil, fmt.Errorf("vehicle model is required")
	}
	if fuelEfficiency <= 0 {
		return nil, fmt.Errorf("fuel efficiency must be positive")
	}

	now := time.Now().UTC()
	return &Vehicle{
		id:             uuid.New(),
		ownerID:        ownerID,
		make_:          make_,
		model:          model,
		year:           year,
		fuelEfficiency: fuelEfficiency,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// Reconstruct rebuilds a Vehicle from persistence data (no validation).
func Reconstruct(
	id, ownerID uuid.UUID,
	make_, model string,
	year int,
	fuelEfficiency float64,
	createdAt, updatedAt time.Time,
) *Vehicle {
	return &Vehicle{
		id:             id,
		ownerID:        ownerID,
		make_:          make_,
		model:          model,
		year:           year,
		fuelEfficiency: fuelEfficiency,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// --- Getters ---

func (v *Vehicle) ID() uuid.UUID           { return v.id }
func (v *Vehicle) OwnerID() uuid.UUID      { return v.ownerID }
func (v *Vehicle) Make() string            { return v.make_ }
func (v *Vehicle) Model() string           { return v.model }
func (v *Vehicle) Year() int               { return v.year }
func (v *Vehicle) FuelEfficiency() float64 { return v.fuelEfficiency }
func (v *Vehicle) CreatedAt() time.Time    { return v.createdAt }
func (v *Vehicle) UpdatedAt() time.Time    { return v.updatedAt }
