// Package parking applies validated status transitions to the spot registry
// and records the matching event in the history log.
package parking

import (
	"context"
	"log"
	"math"
	"time"

	"parking-status-backend/internal/apperr"
	"parking-status-backend/internal/model"
	"parking-status-backend/internal/store"
)

// DeadLetterSink receives events that could not be appended to the history
// log. The spot update itself has already committed at that point; routing
// the failure here keeps the divergence observable instead of swallowed.
type DeadLetterSink interface {
	Failed(event model.ParkingEvent, err error)
}

// LogSink is the default DeadLetterSink; it writes failures to the log.
type LogSink struct{}

func (LogSink) Failed(event model.ParkingEvent, err error) {
	log.Printf("dead-letter: %s event for spot %s at %s not recorded: %v",
		event.Action, event.SpotID, event.Timestamp.Format(time.RFC3339), err)
}

// Notifier is told when a spot transitions to available.
type Notifier interface {
	SpotReleased(spotID string)
}

// Broadcaster is told about every committed spot mutation.
type Broadcaster interface {
	SpotUpdated(spot model.ParkingSpot)
}

// Service is the status mutator.
type Service struct {
	store       store.Store
	deadLetter  DeadLetterSink
	notifier    Notifier
	broadcaster Broadcaster
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithDeadLetter replaces the default log-based sink.
func WithDeadLetter(sink DeadLetterSink) Option {
	return func(s *Service) { s.deadLetter = sink }
}

// WithNotifier wires availability notifications.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithBroadcaster wires live spot updates.
func WithBroadcaster(b Broadcaster) Option {
	return func(s *Service) { s.broadcaster = b }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a status mutator on top of the given store.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:      st,
		deadLetter: LogSink{},
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetSpotStatus validates and applies a status change to one spot, then
// appends the matching event. The append is best-effort: a failure goes to
// the dead-letter sink and never rolls back or fails the spot update.
func (s *Service) SetSpotStatus(ctx context.Context, spotID string, status model.SpotStatus, userID string) (*model.ParkingSpot, error) {
	if !status.Valid() {
		return nil, apperr.Validation(`invalid status %q: must be "available" or "occupied"`, status)
	}

	spot, err := s.store.GetSpot(ctx, spotID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	event := model.ParkingEvent{
		SpotID:    spot.SpotID,
		UserID:    userID,
		Timestamp: now,
	}

	switch status {
	case model.StatusOccupied:
		uid := userID
		at := now
		spot.Status = model.StatusOccupied
		spot.OccupiedBy = &uid
		spot.OccupiedAt = &at
		spot.ReleasedAt = nil
		event.Action = model.ActionOccupy
	case model.StatusAvailable:
		if spot.OccupiedAt != nil {
			minutes := int(math.Round(now.Sub(*spot.OccupiedAt).Minutes()))
			event.DurationMinutes = &minutes
		}
		at := now
		spot.Status = model.StatusAvailable
		spot.OccupiedBy = nil
		spot.ReleasedAt = &at
		event.Action = model.ActionRelease
	}
	spot.UpdatedAt = now

	if err := s.store.SaveSpot(ctx, spot); err != nil {
		return nil, err
	}

	if err := s.store.AppendEvent(ctx, &event); err != nil {
		s.deadLetter.Failed(event, err)
	}

	if status == model.StatusAvailable && s.notifier != nil {
		s.notifier.SpotReleased(spot.SpotID)
	}
	if s.broadcaster != nil {
		s.broadcaster.SpotUpdated(*spot)
	}

	return spot, nil
}
