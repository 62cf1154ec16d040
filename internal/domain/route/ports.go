package route

import "context"

// Provider fetches route candidates from the external routing service.
//
// Repeated identical calls may legitimately return different results as
// the provider's state changes; implementations make one outbound call
// per invocation and carry no other side effects.
type Provider interface {
	// BaselineRoute returns the single baseline candidate for the stop
	// sequence, tagged SourceBaseline.
	BaselineRoute(ctx context.Context, stops []Stop) (Candidate, error)

	// AlternativeRoutes returns zero or more alternative candidates for
	// the same stop sequence, tagged SourceAlternative. The provider
	// finding no alternatives is not an error.
	AlternativeRoutes(ctx context.Context, stops []Stop) ([]Candidate, error)
}

// Predictor scores exactly one candidate against the external fuel
// prediction service.
type Predictor interface {
	// Estimate returns the predicted fuel consumption for the candidate
	// at the given fuel efficiency (km per liter, must be positive).
	Estimate(ctx context.Context, candidate Candidate, fuelEfficiency float64) (FuelEstimate, error)
}
