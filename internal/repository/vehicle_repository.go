package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/domain"
	vehicleDomain "github.com/eeshabandaru/fuel-efficient-route-tracker/internal/domain/vehicle"
)

// VehicleModel is the GORM model for the vehicles table. Records are
// written by the external inventory collaborator; this service reads them
// to resolve fuel efficiency.
type VehicleModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID        uuid.UUID `gorm:"type:uuid;index;not null"`
	Make           string    `gorm:"type:varchar(100);not null"`
	Model          string    `gorm:"type:varchar(100);not null"`
	Year           int       `gorm:"type:int"`
	FuelEfficiency float64   `gorm:"not null"`
	CreatedAt      time.Time `gorm:"type:timestamptz;not null"`
	UpdatedAt      time.Time `gorm:"type:timestamptz;not null"`
}

func (VehicleModel) TableName() string { return "vehicles" }

// GormVehicleRepository implements vehicle.VehicleRepository using GORM.
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository.
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByID retrieves a vehicle by its unique identifier.
func (r *GormVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*vehicleDomain.Vehicle, error) {
	var model VehicleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("vehicle", id.String())
		}
		return nil, err
	}
	return toVehicleDomain(&model), nil
}

// Upsert inserts or replaces a vehicle record. Called by the vehicle
// event consumer when the fleet inventory service announces a change.
func (r *GormVehicleRepository) Upsert(ctx context.Context, v *vehicleDomain.Vehicle) error {
	model := VehicleModel{
		ID:             v.ID(),
		OwnerID:        v.OwnerID(),
		Make:           v.Make(),
		Model:          v.Model(),
		Year:           v.Year(),
		FuelEfficiency: v.FuelEfficiency(),
		CreatedAt:      v.CreatedAt(),
		UpdatedAt:      v.UpdatedAt(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&model).Error
}

func toVehicleDomain(m *VehicleModel) *vehicleDomain.Vehicle {
	return vehicleDomain.Reconstruct(
		m.ID,
		m.OwnerID,
		m.Make,
		m.Model,
		m.Year,
		m.FuelEfficiency,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
