package client

import (
	"errors"
	"time"

	"parking-status-backend/internal/model"
)

// MutationState tracks one in-flight status change.
type MutationState int

const (
	StateIdle MutationState = iota
	StatePending
	StateCommitted
	StateRolledBack
)

func (s MutationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

var (
	// ErrMutationInFlight is returned by Begin while a change is pending.
	ErrMutationInFlight = errors.New("a mutation is already in flight")
	// ErrNoMutationPending is returned by Commit/Rollback outside pending.
	ErrNoMutationPending = errors.New("no mutation is pending")
)

// Optimistic reconciles a locally displayed spot with the server's answer:
// the local view flips immediately on user action, then either adopts the
// server's record or reverts to the last confirmed one on failure.
type Optimistic struct {
	state   MutationState
	prior   model.ParkingSpot
	current model.ParkingSpot
}

// NewOptimistic starts tracking from a server-confirmed spot record.
func NewOptimistic(spot model.ParkingSpot) *Optimistic {
	return &Optimistic{state: StateIdle, prior: spot, current: spot}
}

// Begin applies the requested change locally and marks the mutation pending.
// Only one mutation may be in flight per spot.
func (o *Optimistic) Begin(status model.SpotStatus, userID string, now time.Time) (model.ParkingSpot, error) {
	if o.state == StatePending {
		return o.current, ErrMutationInFlight
	}

	o.prior = o.current
	o.state = StatePending

	o.current.Status = status
	o.current.UpdatedAt = now
	switch status {
	case model.StatusOccupied:
		uid := userID
		at := now
		o.current.OccupiedBy = &uid
		o.current.OccupiedAt = &at
		o.current.ReleasedAt = nil
	case model.StatusAvailable:
		at := now
		o.current.OccupiedBy = nil
		o.current.ReleasedAt = &at
	}
	return o.current, nil
}

// Commit adopts the server's record as the new confirmed state.
func (o *Optimistic) Commit(server model.ParkingSpot) (model.ParkingSpot, error) {
	if o.state != StatePending {
		return o.current, ErrNoMutationPending
	}
	o.current = server
	o.prior = server
	o.state = StateCommitted
	return o.current, nil
}

// Rollback reverts to the last confirmed state after a failed mutation.
func (o *Optimistic) Rollback() (model.ParkingSpot, error) {
	if o.state != StatePending {
		return o.current, ErrNoMutationPending
	}
	o.current = o.prior
	o.state = StateRolledBack
	return o.current, nil
}

// State returns the current mutation state.
func (o *Optimistic) State() MutationState { return o.state }

// Spot returns the currently displayed record.
func (o *Optimistic) Spot() model.ParkingSpot { return o.current }
