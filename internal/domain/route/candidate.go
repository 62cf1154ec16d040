package route

import (
	"encoding/json"
	"fmt"
)

// CandidateSource tags where a route candidate came from.
type CandidateSource string

const (
	SourceBaseline    CandidateSource = "baseline"
	SourceAlternative CandidateSource = "alternative"
)

// IsValid returns true if the source is a recognized candidate source.
func (s CandidateSource) IsValid() bool {
	return s == SourceBaseline || s == SourceAlternative
}

// String returns the string representation of the source.
func (s CandidateSource) String() string {
	return string(s)
}

// ParseCandidateSource converts a string to a CandidateSource, returning an error if invalid.
func ParseCandidateSource(s string) (CandidateSource, error) {
	source := CandidateSource(s)
	if !source.IsValid() {
		return "", fmt.Errorf("invalid candidate source: %s", s)
	}
	return source, nil
}

// Stop is an ordered waypoint in a route request. Order is semantically
// meaningful and preserved end-to-end.
type Stop struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name,omitempty"`
}

// Candidate is one routing-provider result for a given stop sequence.
// Candidates are immutable once fetched.
type Candidate struct {
	Source         CandidateSource `json:"source"`
	DistanceMeters float64         `json:"distance_meters"`
	// TrafficSeverity is an optional provider-reported scalar in [0,1].
	// Nil means the provider did not report one.
	TrafficSeverity *float64 `json:"traffic_severity,omitempty"`
	// Properties carries the raw provider payload for the candidate,
	// opaque beyond distance and traffic severity.
	Properties json.RawMessage `json:"properties,omitempty"`
}

// FuelEstimate is the result of scoring one Candidate against the fuel
// prediction service. The inputs used to compute it are retained for
// auditability.
type FuelEstimate struct {
	FuelConsumedLiters float64 `json:"fuel_consumed_liters"`
	CO2EmissionsGrams  float64 `json:"co2_emissions_grams"`

	// Inputs sent to the predictor.
	DistanceKm      float64 `json:"distance_km"`
	TrafficSeverity float64 `json:"traffic_severity"`
	FuelEfficiency  float64 `json:"fuel_efficiency"`
	// SeverityDefaulted records that the candidate carried no traffic
	// severity and the neutral default was substituted, so callers can
	// tell a measured input from an assumed one.
	SeverityDefaulted bool `json:"severity_defaulted"`
}
