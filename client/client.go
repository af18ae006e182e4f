// Package client is a Go client for the parking status API, used by tooling
// and the dashboard's backend-for-frontend. It takes an ordered list of
// endpoint candidates and uses the first one that answers; there is no retry
// with delay, only immediate fallback to the next candidate.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"parking-status-backend/internal/model"
	"parking-status-backend/internal/report"
)

// APIError is a response the server produced deliberately (4xx/5xx with an
// error envelope). It is terminal: the next candidate would answer the same.
type APIError struct {
	Status int
	Reason string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Reason)
}

// Client talks to the parking status API.
type Client struct {
	endpoints []string
	http      *http.Client
	timeout   time.Duration
}

// New creates a client. Endpoints are base URLs tried in order; timeout
// bounds each individual attempt.
func New(endpoints []string, timeout time.Duration) *Client {
	trimmed := make([]string, len(endpoints))
	for i, e := range endpoints {
		trimmed[i] = strings.TrimRight(e, "/")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoints: trimmed,
		http:      &http.Client{Timeout: timeout},
		timeout:   timeout,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// do tries each endpoint in order. Transport failures move on to the next
// candidate; an HTTP response, success or not, ends the search.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var lastErr error
	for _, endpoint := range c.endpoints {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := c.attempt(attemptCtx, method, endpoint+path, payload, out)
		cancel()

		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return err
		}
		if err == nil {
			return nil
		}
		lastErr = err
	}
	if lastErr == nil {
		return errors.New("no endpoints configured")
	}
	return fmt.Errorf("all endpoints failed: %w", lastErr)
}

func (c *Client) attempt(ctx context.Context, method, url string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to unmarshal response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		reason := env.Error
		if reason == "" {
			reason = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Reason: reason}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to unmarshal response data: %w", err)
		}
	}
	return nil
}

// ListSpots returns the full registry, ordered by spot identifier.
func (c *Client) ListSpots(ctx context.Context) ([]model.ParkingSpot, error) {
	var spots []model.ParkingSpot
	if err := c.do(ctx, http.MethodGet, "/api/parking/spots", nil, &spots); err != nil {
		return nil, err
	}
	return spots, nil
}

// GetSpot returns a single spot.
func (c *Client) GetSpot(ctx context.Context, spotID string) (*model.ParkingSpot, error) {
	var spot model.ParkingSpot
	if err := c.do(ctx, http.MethodGet, "/api/parking/spots/"+spotID, nil, &spot); err != nil {
		return nil, err
	}
	return &spot, nil
}

type setStatusRequest struct {
	Status string `json:"status"`
	UserID string `json:"user_id"`
}

// SetSpotStatus requests a status change and returns the updated spot.
func (c *Client) SetSpotStatus(ctx context.Context, spotID string, status model.SpotStatus, userID string) (*model.ParkingSpot, error) {
	var spot model.ParkingSpot
	body := setStatusRequest{Status: string(status), UserID: userID}
	if err := c.do(ctx, http.MethodPut, "/api/parking/spots/"+spotID+"/status", body, &spot); err != nil {
		return nil, err
	}
	return &spot, nil
}

// Stats returns the current registry counts.
func (c *Client) Stats(ctx context.Context) (report.ParkingStats, error) {
	var stats report.ParkingStats
	err := c.do(ctx, http.MethodGet, "/api/parking/stats", nil, &stats)
	return stats, err
}

// Analytics returns the full analytics snapshot.
func (c *Client) Analytics(ctx context.Context) (report.Snapshot, error) {
	var snap report.Snapshot
	err := c.do(ctx, http.MethodGet, "/api/reports/analytics", nil, &snap)
	return snap, err
}

// History returns a page of raw events, newest first.
func (c *Client) History(ctx context.Context, limit, offset int) ([]model.ParkingEvent, error) {
	var events []model.ParkingEvent
	path := fmt.Sprintf("/api/reports/history?limit=%d&offset=%d", limit, offset)
	if err := c.do(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}
