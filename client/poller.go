package client

import (
	"context"
	"log"
	"sync"
	"time"

	"parking-status-backend/internal/model"
)

// Poller refreshes the spot list on an interval and hands each result to a
// callback. While a mutation started through the poller is in flight, the
// periodic refresh is suppressed so a stale read cannot clobber the
// optimistic state before the server answers.
type Poller struct {
	client   *Client
	interval time.Duration
	onSpots  func([]model.ParkingSpot)

	mu       sync.Mutex
	inflight int
}

// NewPoller creates a poller delivering spot lists to onSpots.
func NewPoller(c *Client, interval time.Duration, onSpots func([]model.ParkingSpot)) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{client: c, interval: interval, onSpots: onSpots}
}

// Run polls until the context is cancelled, starting with an immediate poll.
func (p *Poller) Run(ctx context.Context) {
	p.PollNow(ctx)

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			p.PollNow(ctx)
			timer.Reset(p.interval)
		}
	}
}

// PollNow fetches the spot list once, unless a mutation is outstanding.
func (p *Poller) PollNow(ctx context.Context) {
	p.mu.Lock()
	busy := p.inflight > 0
	p.mu.Unlock()
	if busy {
		return
	}

	spots, err := p.client.ListSpots(ctx)
	if err != nil {
		log.Printf("poll failed: %v", err)
		return
	}
	p.onSpots(spots)
}

// SetSpotStatus forwards a status change through the client while holding
// off background refreshes until the server has answered.
func (p *Poller) SetSpotStatus(ctx context.Context, spotID string, status model.SpotStatus, userID string) (*model.ParkingSpot, error) {
	p.beginMutation()
	defer p.endMutation()
	return p.client.SetSpotStatus(ctx, spotID, status, userID)
}

func (p *Poller) beginMutation() {
	p.mu.Lock()
	p.inflight++
	p.mu.Unlock()
}

func (p *Poller) endMutation() {
	p.mu.Lock()
	if p.inflight > 0 {
		p.inflight--
	}
	p.mu.Unlock()
}
