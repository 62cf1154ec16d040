package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/domain"
	routeDomain "github.com/eeshabandaru/fuel-efficient-route-tracker/internal/domain/route"
	vehicleDomain "github.com/eeshabandaru/fuel-efficient-route-tracker/internal/domain/vehicle"
	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/events"
)

// PlanRequest holds the data needed to plan and compare routes.
// Fuel efficiency comes either directly or from a stored vehicle record;
// exactly one of the two must be supplied.
type PlanRequest struct {
	Stops          []routeDomain.Stop `json:"stops" binding:"required"`
	FuelEfficiency *float64           `json:"fuel_efficiency,omitempty"`
	VehicleID      *uuid.UUID         `json:"vehicle_id,omitempty"`
}

// ComparisonDTO is the response representation of a route comparison.
type ComparisonDTO struct {
	ID                 uuid.UUID                 `json:"id"`
	OwnerID            uuid.UUID                 `json:"owner_id"`
	Stops              []routeDomain.Stop        `json:"stops"`
	Baseline           routeDomain.Candidate     `json:"baseline"`
	BaselineFuelLiters float64                   `json:"baseline_fuel_liters"`
	FuelEfficiency     float64                   `json:"fuel_efficiency"`
	Optimized          *routeDomain.Candidate    `json:"optimized,omitempty"`
	OptimizedEstimate  *routeDomain.FuelEstimate `json:"optimized_estimate,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
}

// PlannerService is the application service orchestrating the route
// comparison workflow: fetch baseline, fetch alternatives, score each
// alternative, select the minimum-fuel candidate, persist the result.
type PlannerService struct {
	repo      routeDomain.Repository
	vehicles  vehicleDomain.VehicleRepository
	provider  routeDomain.Provider
	predictor routeDomain.Predictor
	producer  *events.Producer
	logger    *zap.Logger
}

// NewPlannerService creates a new PlannerService. producer may be nil to
// disable event publishing.
func NewPlannerService(
	repo routeDomain.Repository,
	vehicles vehicleDomain.VehicleRepository,
	provider routeDomain.Provider,
	predictor routeDomain.Predictor,
	producer *events.Producer,
	logger *zap.Logger,
) *PlannerService {
	return &PlannerService{
		repo:      repo,
		vehicles:  vehicles,
		provider:  provider,
		predictor: predictor,
		producer:  producer,
		logger:    logger,
	}
}

// candidateOutcome is the tagged result of scoring one alternative.
// Outcomes for every candidate are collected before selection so that a
// single failure neither aborts its siblings nor perturbs the
// provider-order tie-break.
type candidateOutcome struct {
	candidate routeDomain.Candidate
	estimate  routeDomain.FuelEstimate
	err       error
}

// PlanAndCompare produces a persisted route comparison for the owner.
//
// Failure semantics: an invalid request or a baseline failure is fatal;
// an alternatives-fetch failure or a per-candidate scoring failure
// degrades the result instead of aborting it. Nothing is persisted on a
// fatal path.
func (s *PlannerService) PlanAndCompare(ctx context.Context, ownerID uuid.UUID, req PlanRequest) (*ComparisonDTO, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if len(req.Stops) < 2 {
		return nil, domain.NewValidationError("at least 2 stops are required")
	}

	fuelEfficiency, err := s.resolveFuelEfficiency(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}

	baseline, err := s.provider.BaselineRoute(ctx, req.Stops)
	if err != nil {
		// No comparison exists without a baseline.
		return nil, domain.NewPlanningFailedError(err)
	}

	baselineFuel := baseline.DistanceMeters / 1000 / fuelEfficiency

	alternatives, err := s.provider.AlternativeRoutes(ctx, req.Stops)
	if err != nil {
		s.logger.Warn("alternatives fetch failed, continuing with baseline only",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err),
		)
		alternatives = nil
	}

	outcomes := s.scoreCandidates(ctx, alternatives, fuelEfficiency)
	optimized, optimizedEstimate := selectOptimized(outcomes)

	comparison, err := routeDomain.NewComparison(
		ownerID,
		req.Stops,
		baseline,
		baselineFuel,
		fuelEfficiency,
		optimized,
		optimizedEstimate,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, comparison); err != nil {
		return nil, domain.NewInternalError("failed to save route comparison", err)
	}

	s.publishRoutePlanned(ctx, comparison)

	result := toComparisonDTO(comparison)
	return &result, nil
}

// GetComparison retrieves a comparison by ID for the given owner. A
// nonexistent ID and an owner mismatch are both reported as not found.
func (s *PlannerService) GetComparison(ctx context.Context, ownerID, id uuid.UUID) (*ComparisonDTO, error) {
	comparison, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comparison.OwnerID() != ownerID {
		return nil, domain.NewNotFoundError("route comparison", id.String())
	}

	result := toComparisonDTO(comparison)
	return &result, nil
}

// ListComparisons retrieves the owner's comparisons with pagination.
func (s *PlannerService) ListComparisons(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]ComparisonDTO, int64, error) {
	comparisons, total, err := s.repo.FindByOwnerID(ctx, ownerID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]ComparisonDTO, len(comparisons))
	for i, c := range comparisons {
		dtos[i] = toComparisonDTO(c)
	}
	return dtos, total, nil
}

// --- Helpers ---

// resolveFuelEfficiency validates the request's efficiency source: a
// literal value, or a stored vehicle record owned by the caller.
func (s *PlannerService) resolveFuelEfficiency(ctx context.Context, ownerID uuid.UUID, req PlanRequest) (float64, error) {
	switch {
	case req.FuelEfficiency != nil && req.VehicleID != nil:
		return 0, domain.NewValidationError("supply either fuel_efficiency or vehicle_id, not both")

	case req.FuelEfficiency != nil:
		if *req.FuelEfficiency <= 0 {
			return 0, domain.NewValidationError("fuel efficiency must be positive")
		}
		return *req.FuelEfficiency, nil

	case req.VehicleID != nil:
		v, err := s.vehicles.FindByID(ctx, *req.VehicleID)
		if err != nil {
			return 0, err
		}
		if v.OwnerID() != ownerID {
			return 0, domain.NewNotFoundError("vehicle", req.VehicleID.String())
		}
		return v.FuelEfficiency(), nil

	default:
		return 0, domain.NewValidationError("fuel_efficiency or vehicle_id is required")
	}
}

// scoreCandidates estimates fuel for each alternative independently,
// preserving provider order. One candidate's failure is recorded and
// does not stop the remaining candidates from being scored.
func (s *PlannerService) scoreCandidates(ctx context.Context, candidates []routeDomain.Candidate, fuelEfficiency float64) []candidateOutcome {
	outcomes := make([]candidateOutcome, len(candidates))
	for i, candidate := range candidates {
		estimate, err := s.predictor.Estimate(ctx, candidate, fuelEfficiency)
		if err != nil {
			s.logger.Warn("fuel estimation failed for alternative, excluding from selection",
				zap.Int("index", i),
				zap.Float64("distance_meters", candidate.DistanceMeters),
				zap.Error(err),
			)
			outcomes[i] = candidateOutcome{candidate: candidate, err: err}
			continue
		}
		outcomes[i] = candidateOutcome{candidate: candidate, estimate: estimate}
	}
	return outcomes
}

// selectOptimized picks the scored outcome with the strictly lowest
// predicted fuel consumption. Ties resolve to the first candidate in
// provider order; failed outcomes never win. Returns nils when nothing
// was scored.
func selectOptimized(outcomes []candidateOutcome) (*routeDomain.Candidate, *routeDomain.FuelEstimate) {
	var best *candidateOutcome
	for i := range outcomes {
		if outcomes[i].err != nil {
			continue
		}
		if best == nil || outcomes[i].estimate.FuelConsumedLiters < best.estimate.FuelConsumedLiters {
			best = &outcomes[i]
		}
	}
	if best == nil {
		return nil, nil
	}

	candidate := best.candidate
	estimate := best.estimate
	return &candidate, &estimate
}

func toComparisonDTO(c *routeDomain.Comparison) ComparisonDTO {
	return ComparisonDTO{
		ID:                 c.ID(),
		OwnerID:            c.OwnerID(),
		Stops:              c.Stops(),
		Baseline:           c.Baseline(),
		BaselineFuelLiters: c.BaselineFuelLiters(),
		FuelEfficiency:     c.FuelEfficiency(),
		Optimized:          c.Optimized(),
		OptimizedEstimate:  c.OptimizedEstimate(),
		CreatedAt:          c.CreatedAt(),
	}
}

func (s *PlannerService) publishRoutePlanned(ctx context.Context, c *routeDomain.Comparison) {
	if s.producer == nil {
		return
	}

	evt := events.RoutePlannedEvent{
		ComparisonID:     c.ID(),
		OwnerID:          c.OwnerID(),
		StopCount:        len(c.Stops()),
		BaselineMeters:   c.Baseline().DistanceMeters,
		BaselineFuel:     c.BaselineFuelLiters(),
		OptimizedPresent: c.HasOptimized(),
		OccurredAt:       time.Now().UTC(),
	}
	if est := c.OptimizedEstimate(); est != nil {
		fuel := est.FuelConsumedLiters
		evt.OptimizedFuel = &fuel
	}

	cloudEvent, err := events.NewCloudEvent("route-tracker", events.RoutePlanned, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", events.RoutePlanned),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, events.TopicRouteEvents, c.ID().String(), cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicRouteEvents),
			zap.String("event_type", events.RoutePlanned),
			zap.Error(err),
		)
	}
}
