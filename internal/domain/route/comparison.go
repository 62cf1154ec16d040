package route

import (
	"time"

	"github.com/google/uuid"

	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/domain"
)

// Comparison is the aggregate root for the route domain: the persisted
// result of comparing a baseline route against fuel-scored alternatives.
//
// A Comparison is created exactly once per planning request and never
// mutated afterwards. If no alternative could be scored, the optimized
// fields are absent and the comparison still stands on baseline data
// alone; callers must tolerate that partial shape.
type Comparison struct {
	id      uuid.UUID
	ownerID uuid.UUID
	stops   []Stop

	baseline Candidate
	// baselineFuelLiters is the naive estimate distanceKm / fuelEfficiency.
	baselineFuelLiters float64
	fuelEfficiency     float64

	optimized         *Candidate
	optimizedEstimate *FuelEstimate

	createdAt time.Time
}

// NewComparison creates a Comparison, enforcing the aggregate invariants:
// at least two stops, a mandatory baseline, and optimized route and
// estimate either both present or both absent.
func NewComparison(
	ownerID uuid.UUID,
	stops []Stop,
	baseline Candidate,
	baselineFuelLiters float64,
	fuelEfficiency float64,
	optimized *Candidate,
	optimizedEstimate *FuelEstimate,
) (*Comparison, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if len(stops) < 2 {
		return nil, domain.NewValidationError("at least 2 stops are required")
	}
	if baseline.Source != SourceBaseline {
		return nil, domain.NewValidationError("baseline candidate must be tagged baseline")
	}
	if baseline.DistanceMeters < 0 {
		return nil, domain.NewValidationError("baseline distance cannot be negative")
	}
	if fuelEfficiency <= 0 {
		return nil, domain.NewValidationError("fuel efficiency must be positive")
	}
	if (optimized == nil) != (optimizedEstimate == nil) {
		return nil, domain.NewValidationError("optimized route and its estimate must be set together")
	}
	if optimized != nil && optimized.Source != SourceAlternative {
		return nil, domain.NewValidationError("optimized candidate must be tagged alternative")
	}

	ordered := make([]Stop, len(stops))
	copy(ordered, stops)

	return &Comparison{
		id:                 uuid.New(),
		ownerID:            ownerID,
		stops:              ordered,
		baseline:           baseline,
		baselineFuelLiters: baselineFuelLiters,
		fuelEfficiency:     fuelEfficiency,
		optimized:          optimized,
		optimizedEstimate:  optimizedEstimate,
		createdAt:          time.Now().UTC(),
	}, nil
}

// ReconstructComparison rebuilds a Comparison from persistence data (no validation).
func ReconstructComparison(
	id uuid.UUID,
	ownerID uuid.UUID,
	stops []Stop,
	baseline Candidate,
	baselineFuelLiters float64,
	fuelEfficiency float64,
	optimized *Candidate,
	optimizedEstimate *FuelEstimate,
	createdAt time.Time,
) *Comparison {
	return &Comparison{
		id:                 id,
		ownerID:            ownerID,
		stops:              stops,
		baseline:           baseline,
		baselineFuelLiters: baselineFuelLiters,
		fuelEfficiency:     fuelEfficiency,
		optimized:          optimized,
		optimizedEstimate:  optimizedEstimate,
		createdAt:          createdAt,
	}
}

// --- Getters ---

// ID returns the comparison's unique identifier.
func (c *Comparison) ID() uuid.UUID { return c.id }

// OwnerID returns the requesting user's ID.
func (c *Comparison) OwnerID() uuid.UUID { return c.ownerID }

// Stops returns the original stop sequence in traversal order.
func (c *Comparison) Stops() []Stop { return c.stops }

// Baseline returns the mandatory baseline candidate.
func (c *Comparison) Baseline() Candidate { return c.baseline }

// BaselineFuelLiters returns the baseline's naive fuel estimate.
func (c *Comparison) BaselineFuelLiters() float64 { return c.baselineFuelLiters }

// FuelEfficiency returns the fuel efficiency (km per liter) the request used.
func (c *Comparison) FuelEfficiency() float64 { return c.fuelEfficiency }

// Optimized returns the selected alternative, or nil if none could be scored.
func (c *Comparison) Optimized() *Candidate { return c.optimized }

// OptimizedEstimate returns the fuel estimate belonging to the selected
// alternative, or nil if none could be scored.
func (c *Comparison) OptimizedEstimate() *FuelEstimate { return c.optimizedEstimate }

// CreatedAt returns the creation timestamp.
func (c *Comparison) CreatedAt() time.Time { return c.createdAt }

// HasOptimized reports whether an alternative was successfully scored.
func (c *Comparison) HasOptimized() bool { return c.optimized != nil }
