package store

import (
	"context"
	"time"

	"parking-status-backend/internal/model"
)

// Store is the injected persistence boundary: a spot registry, an append-only
// event log and the push subscription table. Implementations exist for GORM
// (postgres/sqlite) and for plain memory, so callers never depend on a
// particular backend.
type Store interface {
	// Spot registry.
	ListSpots(ctx context.Context) ([]model.ParkingSpot, error)
	GetSpot(ctx context.Context, spotID string) (*model.ParkingSpot, error)
	SaveSpot(ctx context.Context, spot *model.ParkingSpot) error
	SeedSpots(ctx context.Context, spots []model.ParkingSpot) error

	// Event log.
	AppendEvent(ctx context.Context, event *model.ParkingEvent) error
	AllEvents(ctx context.Context) ([]model.ParkingEvent, error)
	EventsBetween(ctx context.Context, from, to time.Time) ([]model.ParkingEvent, error)
	EventsPage(ctx context.Context, limit, offset int) ([]model.ParkingEvent, error)

	// Push subscriptions.
	PutSubscription(ctx context.Context, sub *model.PushSubscription, spotIDs []string) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForSpot(ctx context.Context, spotID string) ([]model.PushSubscription, error)
}
