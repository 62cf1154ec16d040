package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	vehicleDomain "github.com/eeshabandaru/fuel-efficient-route-tracker/internal/domain/vehicle"
)

// VehicleStore persists vehicle records received from the fleet
// inventory topic.
type VehicleStore interface {
	Upsert(ctx context.Context, v *vehicleDomain.Vehicle) error
}

// VehicleEventConsumer listens to fleet inventory events and mirrors
// vehicle records into the local store so planning requests can resolve
// fuel efficiency from a vehicle_id without a synchronous lookup.
type VehicleEventConsumer struct {
	consumer *Consumer
	store    VehicleStore
	logger   *zap.Logger
}

// NewVehicleEventConsumer creates a consumer bound to the vehicle
// events topic.
func NewVehicleEventConsumer(
	brokers []string,
	groupID string,
	store VehicleStore,
	logger *zap.Logger,
) *VehicleEventConsumer {
	consumer := NewConsumer(brokers, groupID, TopicVehicleEvents, logger)
	return &VehicleEventConsumer{
		consumer: consumer,
		store:    store,
		logger:   logger,
	}
}

// Start begins consuming vehicle events. This blocks until the context is cancelled.
func (c *VehicleEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *VehicleEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *VehicleEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from vehicle topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case VehicleRegistered, VehicleUpdated:
		return c.handleVehicleChanged(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled vehicle event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *VehicleEventConsumer) handleVehicleChanged(ctx context.Context, cloudEvent CloudEvent) error {
	var evt VehicleEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse VehicleEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	v := vehicleDomain.Reconstruct(
		evt.VehicleID,
		evt.OwnerID,
		evt.Make,
		evt.Model,
		evt.Year,
		evt.FuelEfficiency,
		evt.OccurredAt,
		evt.OccurredAt,
	)

	if err := c.store.Upsert(ctx, v); err != nil {
		c.logger.Error("failed to upsert vehicle from inventory event",
			zap.String("vehicle_id", evt.VehicleID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("vehicle record synced from inventory event",
		zap.String("vehicle_id", evt.VehicleID.String()),
		zap.String("event_type", cloudEvent.Type),
	)
	return nil
}
