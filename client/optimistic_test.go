package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking-status-backend/internal/model"
)

func confirmedSpot() model.ParkingSpot {
	return model.ParkingSpot{SpotID: "A01", Section: "A", Status: model.StatusAvailable}
}

func TestOptimisticBeginCommit(t *testing.T) {
	o := NewOptimistic(confirmedSpot())
	assert.Equal(t, StateIdle, o.State())

	now := time.Date(2024, 3, 18, 8, 0, 0, 0, time.UTC)
	local, err := o.Begin(model.StatusOccupied, "user123", now)
	require.NoError(t, err)
	assert.Equal(t, StatePending, o.State())
	assert.Equal(t, model.StatusOccupied, local.Status)
	require.NotNil(t, local.OccupiedBy)
	assert.Equal(t, "user123", *local.OccupiedBy)

	uid := "user123"
	at := now
	server := model.ParkingSpot{SpotID: "A01", Section: "A", Status: model.StatusOccupied, OccupiedBy: &uid, OccupiedAt: &at}
	got, err := o.Commit(server)
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, o.State())
	assert.Equal(t, server, got)
	assert.Equal(t, server, o.Spot())
}

func TestOptimisticBeginRollback(t *testing.T) {
	o := NewOptimistic(confirmedSpot())

	now := time.Date(2024, 3, 18, 8, 0, 0, 0, time.UTC)
	_, err := o.Begin(model.StatusOccupied, "user123", now)
	require.NoError(t, err)

	got, err := o.Rollback()
	require.NoError(t, err)
	assert.Equal(t, StateRolledBack, o.State())
	assert.Equal(t, confirmedSpot(), got)
	assert.Equal(t, model.StatusAvailable, o.Spot().Status)
}

func TestOptimisticSingleMutationInFlight(t *testing.T) {
	o := NewOptimistic(confirmedSpot())
	now := time.Date(2024, 3, 18, 8, 0, 0, 0, time.UTC)

	_, err := o.Begin(model.StatusOccupied, "user123", now)
	require.NoError(t, err)

	_, err = o.Begin(model.StatusAvailable, "user123", now)
	assert.ErrorIs(t, err, ErrMutationInFlight)
	assert.Equal(t, StatePending, o.State())
}

func TestOptimisticCommitOutsidePending(t *testing.T) {
	o := NewOptimistic(confirmedSpot())

	_, err := o.Commit(confirmedSpot())
	assert.ErrorIs(t, err, ErrNoMutationPending)

	_, err = o.Rollback()
	assert.ErrorIs(t, err, ErrNoMutationPending)
}

func TestOptimisticNewMutationAfterCommit(t *testing.T) {
	o := NewOptimistic(confirmedSpot())
	now := time.Date(2024, 3, 18, 8, 0, 0, 0, time.UTC)

	_, err := o.Begin(model.StatusOccupied, "user123", now)
	require.NoError(t, err)
	uid := "user123"
	_, err = o.Commit(model.ParkingSpot{SpotID: "A01", Status: model.StatusOccupied, OccupiedBy: &uid})
	require.NoError(t, err)

	// Releasing afterwards starts a fresh cycle.
	local, err := o.Begin(model.StatusAvailable, "user123", now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, StatePending, o.State())
	assert.Equal(t, model.StatusAvailable, local.Status)
	assert.Nil(t, local.OccupiedBy)
}

func TestMutationStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "committed", StateCommitted.String())
	assert.Equal(t, "rolled-back", StateRolledBack.String())
}
