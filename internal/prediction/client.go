package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/domain"
	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/domain/route"
)

const upstreamName = "fuel predictor"

// Client calls the external fuel prediction service to score one route
// candidate at a time. It implements route.Predictor.
//
// The client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *EstimateCache
	logger     *zap.Logger
}

// NewClient creates a predictor client. cache may be nil to disable
// response caching.
func NewClient(baseURL string, timeout time.Duration, cache *EstimateCache, logger *zap.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("predictor base URL is empty")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		cache:      cache,
		logger:     logger,
	}, nil
}

type predictRequest struct {
	Distance           float64 `json:"distance"`
	TrafficSeverity    float64 `json:"normalized_traffic_severity"`
	CombinedEfficiency float64 `json:"combined_fuel_efficiency"`
}

type predictResponse struct {
	FuelConsumption *float64 `json:"fuel_consumption"`
	CO2Emissions    float64  `json:"co2_emissions"`
}

// Estimate scores the candidate at the given fuel efficiency (km per liter).
//
// The candidate's distance is converted to kilometers and a missing
// traffic severity is replaced by the documented neutral default before
// calling the remote predictor.
func (c *Client) Estimate(ctx context.Context, candidate route.Candidate, fuelEfficiency float64) (route.FuelEstimate, error) {
	if fuelEfficiency <= 0 {
		return route.FuelEstimate{}, domain.NewValidationError("fuel efficiency must be positive")
	}

	distanceKm := KilometersFromMeters(candidate.DistanceMeters)
	severity, defaulted := NormalizeTrafficSeverity(candidate.TrafficSeverity)

	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, distanceKm, severity, fuelEfficiency); ok {
			cached.SeverityDefaulted = defaulted
			return cached, nil
		}
	}

	payload, err := json.Marshal(predictRequest{
		Distance:           distanceKm,
		TrafficSeverity:    severity,
		CombinedEfficiency: fuelEfficiency,
	})
	if err != nil {
		return route.FuelEstimate{}, domain.NewInternalError("marshal predict request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return route.FuelEstimate{}, domain.NewInternalError("create predict request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return route.FuelEstimate{}, domain.NewUnavailableError(upstreamName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return route.FuelEstimate{}, domain.NewUnavailableError(
			upstreamName,
			fmt.Errorf("status %d", resp.StatusCode),
		)
	}

	var pr predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return route.FuelEstimate{}, domain.NewMalformedResponseError(upstreamName, "undecodable body")
	}
	if pr.FuelConsumption == nil {
		return route.FuelEstimate{}, domain.NewMalformedResponseError(upstreamName, "missing fuel_consumption")
	}
	if *pr.FuelConsumption < 0 {
		return route.FuelEstimate{}, domain.NewMalformedResponseError(upstreamName, "negative fuel_consumption")
	}

	estimate := route.FuelEstimate{
		FuelConsumedLiters: *pr.FuelConsumption,
		CO2EmissionsGrams:  pr.CO2Emissions,
		DistanceKm:         distanceKm,
		TrafficSeverity:    severity,
		FuelEfficiency:     fuelEfficiency,
		SeverityDefaulted:  defaulted,
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, estimate); err != nil {
			c.logger.Warn("estimate cache write failed", zap.Error(err))
		}
	}

	return estimate, nil
}
