package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/domain"
	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/domain/route"
)

func newTestGeoapifyClient(t *testing.T, handler http.HandlerFunc) *GeoapifyClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewGeoapifyClient("test-key", srv.URL, 5*time.Second, 3, zap.NewNop())
	require.NoError(t, err)
	return client
}

func testStops() []route.Stop {
	return []route.Stop{
		{Lat: 37.7749, Lon: -122.4194},
		{Lat: 34.0522, Lon: -118.2437},
	}
}

func TestNewGeoapifyClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGeoapifyClient("", "", 0, 0, zap.NewNop())
	require.Error(t, err)
}

func TestBaselineRoute(t *testing.T) {
	client := newTestGeoapifyClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/routeplanner", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))

		var body struct {
			Mode  string `json:"mode"`
			Stops []struct {
				Location [2]float64 `json:"location"`
			} `json:"stops"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "drive", body.Mode)
		require.Len(t, body.Stops, 2)
		// Geoapify wants lon,lat order.
		assert.Equal(t, -122.4194, body.Stops[0].Location[0])
		assert.Equal(t, 37.7749, body.Stops[0].Location[1])

		w.Write([]byte(`{"features":[{"properties":{"distance":12345.6,"traffic_severity":0.4}}]}`))
	})

	candidate, err := client.BaselineRoute(context.Background(), testStops())

	require.NoError(t, err)
	assert.Equal(t, route.SourceBaseline, candidate.Source)
	assert.Equal(t, 12345.6, candidate.DistanceMeters)
	require.NotNil(t, candidate.TrafficSeverity)
	assert.Equal(t, 0.4, *candidate.TrafficSeverity)
}

func TestBaselineRoute_NoFeatures(t *testing.T) {
	client := newTestGeoapifyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	})

	_, err := client.BaselineRoute(context.Background(), testStops())

	require.Error(t, err)
	assert.Equal(t, domain.CodeMalformedResponse, domain.CodeOf(err))
}

func TestBaselineRoute_MissingDistance(t *testing.T) {
	client := newTestGeoapifyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[{"properties":{"mode":"drive"}}]}`))
	})

	_, err := client.BaselineRoute(context.Background(), testStops())

	require.Error(t, err)
	assert.Equal(t, domain.CodeMalformedResponse, domain.CodeOf(err))
}

func TestBaselineRoute_RetriesServerErrors(t *testing.T) {
	attempts := 0
	client := newTestGeoapifyClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"features":[{"properties":{"distance":1000}}]}`))
	})

	candidate, err := client.BaselineRoute(context.Background(), testStops())

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, float64(1000), candidate.DistanceMeters)
}

func TestBaselineRoute_GivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	client := newTestGeoapifyClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.BaselineRoute(context.Background(), testStops())

	require.Error(t, err)
	assert.Equal(t, domain.CodeUnavailable, domain.CodeOf(err))
	assert.Equal(t, 3, attempts)
}

func TestAlternativeRoutes(t *testing.T) {
	client := newTestGeoapifyClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/routing", r.URL.Path)
		assert.Equal(t, "37.774900,-122.419400|34.052200,-118.243700", r.URL.Query().Get("waypoints"))
		assert.Equal(t, "drive", r.URL.Query().Get("mode"))
		assert.Equal(t, "3", r.URL.Query().Get("alternatives"))

		w.Write([]byte(`{"features":[
			{"properties":{"distance":8000,"traffic_severity":0.2}},
			{"properties":{"distance":9500}}
		]}`))
	})

	candidates, err := client.AlternativeRoutes(context.Background(), testStops())

	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, route.SourceAlternative, candidates[0].Source)
	assert.Equal(t, float64(8000), candidates[0].DistanceMeters)
	assert.Nil(t, candidates[1].TrafficSeverity)
}

func TestAlternativeRoutes_SkipsMalformedEntries(t *testing.T) {
	client := newTestGeoapifyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[
			{"properties":{"distance":8000}},
			{"properties":{"distance":-5}},
			{"properties":{"distance":9500,"traffic_severity":7}},
			{"properties":{"distance":11000}}
		]}`))
	})

	candidates, err := client.AlternativeRoutes(context.Background(), testStops())

	require.NoError(t, err, "malformed entries are skipped, not fatal")
	require.Len(t, candidates, 2)
	assert.Equal(t, float64(8000), candidates[0].DistanceMeters)
	assert.Equal(t, float64(11000), candidates[1].DistanceMeters)
}

func TestAlternativeRoutes_EmptyResult(t *testing.T) {
	client := newTestGeoapifyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	})

	candidates, err := client.AlternativeRoutes(context.Background(), testStops())

	require.NoError(t, err)
	assert.Empty(t, candidates)
}
