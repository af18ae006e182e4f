package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking-status-backend/internal/apperr"
	"parking-status-backend/internal/model"
)

func seedMemory(t *testing.T) Store {
	t.Helper()
	st := NewMemoryStore()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.SeedSpots(context.Background(), BuildFleet([]string{"A", "B"}, 3, now)))
	return st
}

func TestBuildFleet(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	fleet := BuildFleet([]string{"A", "B", "C", "D"}, 8, now)

	require.Len(t, fleet, 32)
	assert.Equal(t, "A01", fleet[0].SpotID)
	assert.Equal(t, "D08", fleet[31].SpotID)
	for _, spot := range fleet {
		assert.Equal(t, model.StatusAvailable, spot.Status)
		assert.Nil(t, spot.OccupiedBy)
	}
}

func TestMemoryStoreListSpotsOrdered(t *testing.T) {
	st := seedMemory(t)

	spots, err := st.ListSpots(context.Background())
	require.NoError(t, err)
	require.Len(t, spots, 6)
	assert.Equal(t, "A01", spots[0].SpotID)
	assert.Equal(t, "B03", spots[5].SpotID)
}

func TestMemoryStoreSeedIsIdempotent(t *testing.T) {
	st := seedMemory(t)
	ctx := context.Background()

	// Occupy a spot, then seed again; the occupancy must survive.
	spot, err := st.GetSpot(ctx, "A01")
	require.NoError(t, err)
	uid := "u1"
	spot.Status = model.StatusOccupied
	spot.OccupiedBy = &uid
	require.NoError(t, st.SaveSpot(ctx, spot))

	now := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.SeedSpots(ctx, BuildFleet([]string{"A", "B"}, 3, now)))

	spot, err = st.GetSpot(ctx, "A01")
	require.NoError(t, err)
	assert.Equal(t, model.StatusOccupied, spot.Status)

	spots, err := st.ListSpots(ctx)
	require.NoError(t, err)
	assert.Len(t, spots, 6)
}

func TestMemoryStoreGetSpotNotFound(t *testing.T) {
	st := seedMemory(t)

	_, err := st.GetSpot(context.Background(), "Z99")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestMemoryStoreEventsPage(t *testing.T) {
	st := seedMemory(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 18, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, st.AppendEvent(ctx, &model.ParkingEvent{
			SpotID:    "A01",
			UserID:    "u1",
			Action:    model.ActionOccupy,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	// Newest first.
	page, err := st.EventsPage(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, base.Add(4*time.Hour), page[0].Timestamp)
	assert.Equal(t, base.Add(3*time.Hour), page[1].Timestamp)

	page, err = st.EventsPage(ctx, 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, base, page[0].Timestamp)

	page, err = st.EventsPage(ctx, 10, 99)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestMemoryStoreEventsBetween(t *testing.T) {
	st := seedMemory(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)

	for day := 0; day < 4; day++ {
		require.NoError(t, st.AppendEvent(ctx, &model.ParkingEvent{
			SpotID:    "A01",
			Action:    model.ActionOccupy,
			Timestamp: base.AddDate(0, 0, day),
		}))
	}

	// Window is [from, to).
	events, err := st.EventsBetween(ctx, base.AddDate(0, 0, 1), base.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestMemoryStoreSubscriptions(t *testing.T) {
	st := seedMemory(t)
	ctx := context.Background()

	sub := model.PushSubscription{Endpoint: "https://push.example/1", P256DH: "k", Auth: "a"}
	require.NoError(t, st.PutSubscription(ctx, &sub, []string{"A01", "B02", "Z99"}))

	// Unknown spot ids are dropped silently.
	got, err := st.GetSubscription(ctx, sub.Endpoint)
	require.NoError(t, err)
	require.Len(t, got.Spots, 2)

	subs, err := st.SubscriptionsForSpot(ctx, "A01")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, sub.Endpoint, subs[0].Endpoint)

	subs, err = st.SubscriptionsForSpot(ctx, "A02")
	require.NoError(t, err)
	assert.Empty(t, subs)

	require.NoError(t, st.DeleteSubscription(ctx, sub.Endpoint))
	_, err = st.GetSubscription(ctx, sub.Endpoint)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
