package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/domain"
	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/domain/route"
)

const upstreamName = "routing provider"

// GeoapifyClient fetches route candidates from the Geoapify routing
// APIs. It implements route.Provider: the route planner endpoint serves
// the baseline and the routing endpoint serves alternatives.
//
// The client is safe for concurrent use.
type GeoapifyClient struct {
	httpClient      *http.Client
	apiKey          string
	baseURL         string
	mode            string
	maxAlternatives int
	logger          *zap.Logger
}

// NewGeoapifyClient creates a Geoapify client for drive-mode routing.
func NewGeoapifyClient(apiKey, baseURL string, timeout time.Duration, maxAlternatives int, logger *zap.Logger) (*GeoapifyClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("geoapify api key is empty")
	}
	if baseURL == "" {
		baseURL = "https://api.geoapify.com"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxAlternatives <= 0 {
		maxAlternatives = 3
	}

	return &GeoapifyClient{
		httpClient:      &http.Client{Timeout: timeout},
		apiKey:          apiKey,
		baseURL:         strings.TrimRight(baseURL, "/"),
		mode:            "drive",
		maxAlternatives: maxAlternatives,
		logger:          logger,
	}, nil
}

type plannerStop struct {
	Location [2]float64 `json:"location"` // lon, lat
}

type plannerRequest struct {
	Mode  string        `json:"mode"`
	Stops []plannerStop `json:"stops"`
}

type feature struct {
	Properties json.RawMessage `json:"properties"`
}

type featureCollection struct {
	Features []feature `json:"features"`
}

type routeProperties struct {
	Distance        *float64 `json:"distance"`
	TrafficSeverity *float64 `json:"traffic_severity"`
}

// BaselineRoute fetches the single baseline candidate for the stop
// sequence from the route planner endpoint.
func (c *GeoapifyClient) BaselineRoute(ctx context.Context, stops []route.Stop) (route.Candidate, error) {
	payload, err := json.Marshal(plannerRequest{
		Mode:  c.mode,
		Stops: toPlannerStops(stops),
	})
	if err != nil {
		return route.Candidate{}, domain.NewInternalError("marshal route planner request", err)
	}

	endpoint := fmt.Sprintf("%s/v1/routeplanner?apiKey=%s", c.baseURL, url.QueryEscape(c.apiKey))

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return route.Candidate{}, domain.NewUnavailableError(upstreamName, err)
	}
	defer resp.Body.Close()

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return route.Candidate{}, domain.NewMalformedResponseError(upstreamName, "undecodable body")
	}
	if len(fc.Features) == 0 {
		return route.Candidate{}, domain.NewMalformedResponseError(upstreamName, "no route features")
	}

	candidate, err := toCandidate(fc.Features[0], route.SourceBaseline)
	if err != nil {
		return route.Candidate{}, domain.NewMalformedResponseError(upstreamName, err.Error())
	}
	return candidate, nil
}

// AlternativeRoutes fetches alternative candidates for the stop sequence
// from the routing endpoint. An empty result is not an error.
//
// A malformed entry inside an otherwise valid feature list is skipped
// and logged rather than failing the call; that recovery is lossy and
// intentional.
func (c *GeoapifyClient) AlternativeRoutes(ctx context.Context, stops []route.Stop) ([]route.Candidate, error) {
	waypoints := make([]string, len(stops))
	for i, s := range stops {
		waypoints[i] = fmt.Sprintf("%f,%f", s.Lat, s.Lon)
	}

	query := url.Values{}
	query.Set("waypoints", strings.Join(waypoints, "|"))
	query.Set("mode", c.mode)
	query.Set("alternatives", fmt.Sprintf("%d", c.maxAlternatives))
	query.Set("apiKey", c.apiKey)
	endpoint := fmt.Sprintf("%s/v1/routing?%s", c.baseURL, query.Encode())

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, domain.NewUnavailableError(upstreamName, err)
	}
	defer resp.Body.Close()

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, domain.NewMalformedResponseError(upstreamName, "undecodable body")
	}

	candidates := make([]route.Candidate, 0, len(fc.Features))
	for i, f := range fc.Features {
		candidate, err := toCandidate(f, route.SourceAlternative)
		if err != nil {
			c.logger.Warn("skipping malformed alternative route entry",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

func toPlannerStops(stops []route.Stop) []plannerStop {
	out := make([]plannerStop, len(stops))
	for i, s := range stops {
		out[i] = plannerStop{Location: [2]float64{s.Lon, s.Lat}}
	}
	return out
}

func toCandidate(f feature, source route.CandidateSource) (route.Candidate, error) {
	if len(f.Properties) == 0 {
		return route.Candidate{}, fmt.Errorf("missing route properties")
	}

	var props routeProperties
	if err := json.Unmarshal(f.Properties, &props); err != nil {
		return route.Candidate{}, fmt.Errorf("undecodable route properties: %w", err)
	}
	if props.Distance == nil {
		return route.Candidate{}, fmt.Errorf("missing distance")
	}
	if *props.Distance < 0 {
		return route.Candidate{}, fmt.Errorf("negative distance")
	}
	if props.TrafficSeverity != nil && (*props.TrafficSeverity < 0 || *props.TrafficSeverity > 1) {
		return route.Candidate{}, fmt.Errorf("traffic severity out of range")
	}

	return route.Candidate{
		Source:          source,
		DistanceMeters:  *props.Distance,
		TrafficSeverity: props.TrafficSeverity,
		Properties:      f.Properties,
	}, nil
}
