package events

import (
	"time"

	"github.com/google/uuid"
)

// Topic and event type constants.
const (
	TopicRouteEvents   = "route.events"
	TopicVehicleEvents = "vehicle.events"

	RoutePlanned = "route.planned"

	VehicleRegistered = "vehicle.registered"
	VehicleUpdated    = "vehicle.updated"
)

// RoutePlannedEvent is emitted after a route comparison persists.
type RoutePlannedEvent struct {
	ComparisonID     uuid.UUID `json:"comparison_id"`
	OwnerID          uuid.UUID `json:"owner_id"`
	StopCount        int       `json:"stop_count"`
	BaselineMeters   float64   `json:"baseline_meters"`
	BaselineFuel     float64   `json:"baseline_fuel_liters"`
	OptimizedPresent bool      `json:"optimized_present"`
	OptimizedFuel    *float64  `json:"optimized_fuel_liters,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// VehicleEvent is emitted by the external fleet inventory service when a
// vehicle is registered or updated. This service consumes it to keep its
// local vehicle read model current.
type VehicleEvent struct {
	VehicleID      uuid.UUID `json:"vehicle_id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	Make           string    `json:"make"`
	Model          string    `json:"model"`
	Year           int       `json:"year"`
	FuelEfficiency float64   `json:"fuel_efficiency"`
	OccurredAt     time.Time `json:"occurred_at"`
}
