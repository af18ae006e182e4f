package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"parking-status-backend/internal/apperr"
	"parking-status-backend/internal/model"
)

// memoryStore is an in-process Store used for the mock-data backend variant
// and as a fake in tests. All methods copy records in and out so callers
// never share memory with the store.
type memoryStore struct {
	mu      sync.RWMutex
	spots   map[string]model.ParkingSpot // keyed by spot_id
	events  []model.ParkingEvent
	subs    map[string]model.PushSubscription // keyed by endpoint
	watches map[string][]string               // endpoint -> spot_ids
	nextID  uint
	nextEv  int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() Store {
	return &memoryStore{
		spots:   make(map[string]model.ParkingSpot),
		subs:    make(map[string]model.PushSubscription),
		watches: make(map[string][]string),
		nextID:  1,
		nextEv:  1,
	}
}

func (s *memoryStore) ListSpots(ctx context.Context) ([]model.ParkingSpot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spots := make([]model.ParkingSpot, 0, len(s.spots))
	for _, spot := range s.spots {
		spots = append(spots, spot)
	}
	sort.Slice(spots, func(i, j int) bool { return spots[i].SpotID < spots[j].SpotID })
	return spots, nil
}

func (s *memoryStore) GetSpot(ctx context.Context, spotID string) (*model.ParkingSpot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spot, ok := s.spots[spotID]
	if !ok {
		return nil, apperr.NotFound("parking spot %s not found", spotID)
	}
	return &spot, nil
}

func (s *memoryStore) SaveSpot(ctx context.Context, spot *model.ParkingSpot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.spots[spot.SpotID]; !ok {
		return apperr.NotFound("parking spot %s not found", spot.SpotID)
	}
	s.spots[spot.SpotID] = *spot
	return nil
}

func (s *memoryStore) SeedSpots(ctx context.Context, spots []model.ParkingSpot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, spot := range spots {
		if _, ok := s.spots[spot.SpotID]; ok {
			continue
		}
		if spot.ID == 0 {
			spot.ID = s.nextID
		}
		s.nextID++
		s.spots[spot.SpotID] = spot
	}
	return nil
}

func (s *memoryStore) AppendEvent(ctx context.Context, event *model.ParkingEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event.ID = s.nextEv
	s.nextEv++
	s.events = append(s.events, *event)
	return nil
}

func (s *memoryStore) AllEvents(ctx context.Context) ([]model.ParkingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedEventsLocked(), nil
}

func (s *memoryStore) EventsBetween(ctx context.Context, from, to time.Time) ([]model.ParkingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []model.ParkingEvent
	for _, ev := range s.sortedEventsLocked() {
		if !ev.Timestamp.Before(from) && ev.Timestamp.Before(to) {
			events = append(events, ev)
		}
	}
	return events, nil
}

func (s *memoryStore) EventsPage(ctx context.Context, limit, offset int) ([]model.ParkingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.sortedEventsLocked()
	if offset >= len(events) {
		return nil, nil
	}
	events = events[offset:]
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	return events, nil
}

// sortedEventsLocked returns a copy ordered by timestamp descending, newest
// insertion first on ties. Callers must hold at least the read lock.
func (s *memoryStore) sortedEventsLocked() []model.ParkingEvent {
	events := make([]model.ParkingEvent, len(s.events))
	copy(events, s.events)
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].ID > events[j].ID
		}
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	return events
}

func (s *memoryStore) PutSubscription(ctx context.Context, sub *model.PushSubscription, spotIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *sub
	stored.Spots = nil
	if existing, ok := s.subs[sub.Endpoint]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.subs[sub.Endpoint] = stored

	watched := make([]string, 0, len(spotIDs))
	for _, id := range spotIDs {
		if _, ok := s.spots[id]; ok {
			watched = append(watched, id)
		}
	}
	s.watches[sub.Endpoint] = watched
	return nil
}

func (s *memoryStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[endpoint]
	if !ok {
		return nil, apperr.NotFound("subscription not found")
	}
	for _, id := range s.watches[endpoint] {
		if spot, ok := s.spots[id]; ok {
			copied := spot
			sub.Spots = append(sub.Spots, &copied)
		}
	}
	return &sub, nil
}

func (s *memoryStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.subs, endpoint)
	delete(s.watches, endpoint)
	return nil
}

func (s *memoryStore) SubscriptionsForSpot(ctx context.Context, spotID string) ([]model.PushSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var subs []model.PushSubscription
	for endpoint, watched := range s.watches {
		for _, id := range watched {
			if id == spotID {
				subs = append(subs, s.subs[endpoint])
				break
			}
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].Endpoint < subs[j].Endpoint })
	return subs, nil
}
