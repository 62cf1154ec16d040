package prediction

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/domain/route"
)

// EstimateCache is a redis-backed read-through cache for predictor
// responses, keyed by the normalized inputs the predictor sees. The
// predictor is a pure function of those inputs, so entries never go
// stale within their TTL.
//
// Cache failures are reported to the caller as misses; the cache never
// fails a prediction.
type EstimateCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewEstimateCache creates an EstimateCache with the given TTL.
func NewEstimateCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *EstimateCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &EstimateCache{client: client, ttl: ttl, logger: logger}
}

func cacheKey(distanceKm, severity, fuelEfficiency float64) string {
	return fmt.Sprintf("fuel-estimate:%.6f:%.4f:%.4f", distanceKm, severity, fuelEfficiency)
}

// Get returns a cached estimate for the inputs, or ok=false on a miss.
func (c *EstimateCache) Get(ctx context.Context, distanceKm, severity, fuelEfficiency float64) (route.FuelEstimate, bool) {
	raw, err := c.client.Get(ctx, cacheKey(distanceKm, severity, fuelEfficiency)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("estimate cache read failed", zap.Error(err))
		}
		return route.FuelEstimate{}, false
	}

	var estimate route.FuelEstimate
	if err := json.Unmarshal(raw, &estimate); err != nil {
		c.logger.Warn("estimate cache entry undecodable", zap.Error(err))
		return route.FuelEstimate{}, false
	}
	return estimate, true
}

// Put stores an estimate under its own input key.
func (c *EstimateCache) Put(ctx context.Context, estimate route.FuelEstimate) error {
	raw, err := json.Marshal(estimate)
	if err != nil {
		return fmt.Errorf("marshal estimate: %w", err)
	}
	key := cacheKey(estimate.DistanceKm, estimate.TrafficSeverity, estimate.FuelEfficiency)
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}
