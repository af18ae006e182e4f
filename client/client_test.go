package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking-status-backend/internal/model"
)

func spotsHandler(t *testing.T, spots []model.ParkingSpot) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/parking/spots", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    spots,
			"count":   len(spots),
		})
	}
}

func TestClientFallsBackToNextEndpoint(t *testing.T) {
	spots := []model.ParkingSpot{{SpotID: "A01", Section: "A", Status: model.StatusAvailable}}

	good := httptest.NewServer(spotsHandler(t, spots))
	defer good.Close()

	// A server that is already closed produces a transport error.
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	c := New([]string{dead.URL, good.URL}, time.Second)
	got, err := c.ListSpots(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A01", got[0].SpotID)
}

func TestClientAPIErrorIsTerminal(t *testing.T) {
	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "Parking spot Z99 not found",
		})
	}))
	defer first.Close()

	var secondHits int32
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&secondHits, 1)
	}))
	defer second.Close()

	c := New([]string{first.URL, second.URL}, time.Second)
	_, err := c.GetSpot(context.Background(), "Z99")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, apiErr.Reason, "Z99")
	// The server answered, so the next candidate is never consulted.
	assert.Zero(t, atomic.LoadInt32(&secondHits))
}

func TestClientAllEndpointsFailed(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	c := New([]string{dead.URL}, time.Second)
	_, err := c.ListSpots(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all endpoints failed")
}

func TestClientNoEndpoints(t *testing.T) {
	c := New(nil, time.Second)
	_, err := c.ListSpots(context.Background())
	assert.EqualError(t, err, "no endpoints configured")
}

func TestClientSetSpotStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/parking/spots/A01/status", r.URL.Path)

		var body setStatusRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "occupied", body.Status)
		assert.Equal(t, "user123", body.UserID)

		uid := body.UserID
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    model.ParkingSpot{SpotID: "A01", Status: model.StatusOccupied, OccupiedBy: &uid},
		})
	}))
	defer srv.Close()

	c := New([]string{srv.URL}, time.Second)
	spot, err := c.SetSpotStatus(context.Background(), "A01", model.StatusOccupied, "user123")
	require.NoError(t, err)
	assert.Equal(t, model.StatusOccupied, spot.Status)
}

func TestPollerSuppressedWhileMutationInFlight(t *testing.T) {
	var listHits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/parking/spots" {
			atomic.AddInt32(&listHits, 1)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": []model.ParkingSpot{}})
	}))
	defer srv.Close()

	c := New([]string{srv.URL}, time.Second)
	p := NewPoller(c, time.Minute, func([]model.ParkingSpot) {})

	p.PollNow(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&listHits))

	p.beginMutation()
	p.PollNow(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&listHits), "refresh must be suppressed while a mutation is outstanding")

	p.endMutation()
	p.PollNow(context.Background())
	assert.Equal(t, int32(2), atomic.LoadInt32(&listHits))
}
