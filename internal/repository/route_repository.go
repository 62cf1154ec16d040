package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/domain"
	routeDomain "github.com/eeshabandaru/fuel-efficient-route-tracker/internal/domain/route"
)

// ComparisonModel is the GORM model for the route_comparisons table.
// Comparisons are write-once: the repository exposes no update path.
type ComparisonModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID            uuid.UUID       `gorm:"type:uuid;index;not null"`
	Stops              json.RawMessage `gorm:"type:jsonb;not null"`
	Baseline           json.RawMessage `gorm:"type:jsonb;not null"`
	BaselineFuelLiters float64         `gorm:"not null"`
	FuelEfficiency     float64         `gorm:"not null"`
	Optimized          json.RawMessage `gorm:"type:jsonb"`
	OptimizedEstimate  json.RawMessage `gorm:"type:jsonb"`
	CreatedAt          time.Time       `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for the GORM model.
func (ComparisonModel) TableName() string {
	return "route_comparisons"
}

// GormRouteRepository is the GORM-based implementation of route.Repository.
type GormRouteRepository struct {
	db *gorm.DB
}

// NewGormRouteRepository creates a new GormRouteRepository.
func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

// Save persists a new comparison.
func (r *GormRouteRepository) Save(ctx context.Context, comparison *routeDomain.Comparison) error {
	model, err := toComparisonModel(comparison)
	if err != nil {
		return fmt.Errorf("failed to convert comparison to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save comparison: %w", err)
	}
	return nil
}

// FindByID retrieves a comparison by its unique identifier.
func (r *GormRouteRepository) FindByID(ctx context.Context, id uuid.UUID) (*routeDomain.Comparison, error) {
	var model ComparisonModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("route comparison", id.String())
		}
		return nil, fmt.Errorf("failed to find comparison by ID: %w", err)
	}
	return toDomainComparison(&model)
}

// FindByOwnerID retrieves comparisons for an owner, newest first, with pagination.
func (r *GormRouteRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*routeDomain.Comparison, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ComparisonModel{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count owner comparisons: %w", err)
	}

	var models []ComparisonModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find owner comparisons: %w", err)
	}

	comparisons := make([]*routeDomain.Comparison, len(models))
	for i, m := range models {
		c, err := toDomainComparison(&m)
		if err != nil {
			return nil, 0, err
		}
		comparisons[i] = c
	}

	return comparisons, total, nil
}

// --- Conversion Helpers ---

func toComparisonModel(c *routeDomain.Comparison) (*ComparisonModel, error) {
	stopsJSON, err := json.Marshal(c.Stops())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stops: %w", err)
	}

	baselineJSON, err := json.Marshal(c.Baseline())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal baseline: %w", err)
	}

	var optimizedJSON json.RawMessage
	if c.Optimized() != nil {
		data, err := json.Marshal(c.Optimized())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal optimized candidate: %w", err)
		}
		optimizedJSON = data
	}

	var estimateJSON json.RawMessage
	if c.OptimizedEstimate() != nil {
		data, err := json.Marshal(c.OptimizedEstimate())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal optimized estimate: %w", err)
		}
		estimateJSON = data
	}

	return &ComparisonModel{
		ID:                 c.ID(),
		OwnerID:            c.OwnerID(),
		Stops:              stopsJSON,
		Baseline:           baselineJSON,
		BaselineFuelLiters: c.BaselineFuelLiters(),
		FuelEfficiency:     c.FuelEfficiency(),
		Optimized:          optimizedJSON,
		OptimizedEstimate:  estimateJSON,
		CreatedAt:          c.CreatedAt(),
	}, nil
}

func toDomainComparison(m *ComparisonModel) (*routeDomain.Comparison, error) {
	var stops []routeDomain.Stop
	if err := json.Unmarshal(m.Stops, &stops); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stops: %w", err)
	}

	var baseline routeDomain.Candidate
	if err := json.Unmarshal(m.Baseline, &baseline); err != nil {
		return nil, fmt.Errorf("failed to unmarshal baseline: %w", err)
	}

	var optimized *routeDomain.Candidate
	if len(m.Optimized) > 0 {
		var cand routeDomain.Candidate
		if err := json.Unmarshal(m.Optimized, &cand); err != nil {
			return nil, fmt.Errorf("failed to unmarshal optimized candidate: %w", err)
		}
		optimized = &cand
	}

	var estimate *routeDomain.FuelEstimate
	if len(m.OptimizedEstimate) > 0 {
		var est routeDomain.FuelEstimate
		if err := json.Unmarshal(m.OptimizedEstimate, &est); err != nil {
			return nil, fmt.Errorf("failed to unmarshal optimized estimate: %w", err)
		}
		estimate = &est
	}

	return routeDomain.ReconstructComparison(
		m.ID,
		m.OwnerID,
		stops,
		baseline,
		m.BaselineFuelLiters,
		m.FuelEfficiency,
		optimized,
		estimate,
		m.CreatedAt,
	), nil
}
