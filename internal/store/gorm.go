package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parking-status-backend/internal/apperr"
	"parking-status-backend/internal/model"
)

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) ListSpots(ctx context.Context) ([]model.ParkingSpot, error) {
	var spots []model.ParkingSpot
	if err := s.db.WithContext(ctx).Order("spot_id").Find(&spots).Error; err != nil {
		return nil, classify("failed to list parking spots", err)
	}
	return spots, nil
}

func (s *gormStore) GetSpot(ctx context.Context, spotID string) (*model.ParkingSpot, error) {
	var spot model.ParkingSpot
	err := s.db.WithContext(ctx).First(&spot, "spot_id = ?", spotID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("parking spot %s not found", spotID)
	}
	if err != nil {
		return nil, classify("failed to fetch parking spot", err)
	}
	return &spot, nil
}

func (s *gormStore) SaveSpot(ctx context.Context, spot *model.ParkingSpot) error {
	if err := s.db.WithContext(ctx).Save(spot).Error; err != nil {
		return classify("failed to update parking spot", err)
	}
	return nil
}

// SeedSpots provisions the fleet, leaving already-known spots untouched so
// restarts do not reset occupancy state.
func (s *gormStore) SeedSpots(ctx context.Context, spots []model.ParkingSpot) error {
	if len(spots) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "spot_id"}},
		DoNothing: true,
	}).Create(&spots).Error
	if err != nil {
		return classify("failed to seed parking spots", err)
	}
	return nil
}

func (s *gormStore) AppendEvent(ctx context.Context, event *model.ParkingEvent) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return classify("failed to append parking event", err)
	}
	return nil
}

func (s *gormStore) AllEvents(ctx context.Context) ([]model.ParkingEvent, error) {
	var events []model.ParkingEvent
	if err := s.db.WithContext(ctx).Order("timestamp DESC, id DESC").Find(&events).Error; err != nil {
		return nil, classify("failed to list parking events", err)
	}
	return events, nil
}

func (s *gormStore) EventsBetween(ctx context.Context, from, to time.Time) ([]model.ParkingEvent, error) {
	var events []model.ParkingEvent
	err := s.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp < ?", from, to).
		Order("timestamp DESC, id DESC").
		Find(&events).Error
	if err != nil {
		return nil, classify("failed to query parking events", err)
	}
	return events, nil
}

func (s *gormStore) EventsPage(ctx context.Context, limit, offset int) ([]model.ParkingEvent, error) {
	var events []model.ParkingEvent
	err := s.db.WithContext(ctx).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, classify("failed to page parking events", err)
	}
	return events, nil
}

func (s *gormStore) PutSubscription(ctx context.Context, sub *model.PushSubscription, spotIDs []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(sub).Error; err != nil {
			return err
		}

		var spots []model.ParkingSpot
		if len(spotIDs) > 0 {
			if err := tx.Where("spot_id IN ?", spotIDs).Find(&spots).Error; err != nil {
				return err
			}
		}
		return tx.Model(sub).Association("Spots").Replace(&spots)
	})
	if err != nil {
		return classify("failed to save subscription", err)
	}
	return nil
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).Preload("Spots").First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("subscription not found")
	}
	if err != nil {
		return nil, classify("failed to fetch subscription", err)
	}
	return &sub, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error; err != nil {
		return classify("failed to delete subscription", err)
	}
	return nil
}

func (s *gormStore) SubscriptionsForSpot(ctx context.Context, spotID string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN subscription_spot_mapping ssm ON ssm.push_subscription_endpoint = push_subscriptions.endpoint").
		Joins("JOIN parking_spots ps ON ps.id = ssm.parking_spot_id").
		Where("ps.spot_id = ?", spotID).
		Find(&subs).Error
	if err != nil {
		return nil, classify("failed to fetch subscriptions for spot", err)
	}
	return subs, nil
}

// classify maps driver-level failures onto the error taxonomy so handlers can
// distinguish an unreachable registry (retryable) from a rejected write.
func classify(msg string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42501", "28000", "28P01": // insufficient_privilege, invalid auth
			return apperr.Permission(msg, err)
		}
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.Unavailable(msg, err)
	}

	return apperr.Unknown(msg, err)
}
