package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking-status-backend/internal/apperr"
	"parking-status-backend/internal/model"
	"parking-status-backend/internal/store"
)

// mockSender records sent payloads and answers with a canned status code.
type mockSender struct {
	statusCode int
	sent       []string
	endpoints  []string
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	m.sent = append(m.sent, string(payload))
	m.endpoints = append(m.endpoints, sub.Endpoint)
	return &http.Response{
		StatusCode: m.statusCode,
		Body:       io.NopCloser(bytes.NewReader(nil)),
	}, nil
}

func newPoolWithSubscribers(t *testing.T, sender Sender) (*WorkerPool, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.SeedSpots(context.Background(), store.BuildFleet([]string{"A"}, 2, now)))

	sub := model.PushSubscription{Endpoint: "https://push.example/1", P256DH: "k", Auth: "a"}
	require.NoError(t, st.PutSubscription(context.Background(), &sub, []string{"A01"}))

	pool := NewWorkerPool(1, st, &webpush.Options{})
	pool.sender = sender
	return pool, st
}

func TestNotifySubscribersSendsToWatchers(t *testing.T) {
	sender := &mockSender{statusCode: http.StatusCreated}
	pool, _ := newPoolWithSubscribers(t, sender)

	pool.notifySubscribers(context.Background(), "A01")

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "A01")
	assert.Equal(t, "https://push.example/1", sender.endpoints[0])
}

func TestNotifySubscribersSkipsUnwatchedSpot(t *testing.T) {
	sender := &mockSender{statusCode: http.StatusCreated}
	pool, _ := newPoolWithSubscribers(t, sender)

	pool.notifySubscribers(context.Background(), "A02")

	assert.Empty(t, sender.sent)
}

func TestExpiredSubscriptionIsDeleted(t *testing.T) {
	sender := &mockSender{statusCode: http.StatusGone}
	pool, st := newPoolWithSubscribers(t, sender)

	pool.notifySubscribers(context.Background(), "A01")

	require.Len(t, sender.sent, 1)
	_, err := st.GetSubscription(context.Background(), "https://push.example/1")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSpotReleasedDropsWhenQueueFull(t *testing.T) {
	st := store.NewMemoryStore()
	pool := NewWorkerPool(1, st, &webpush.Options{})

	// No workers running; the buffered queue holds size*4 jobs, the rest
	// must be dropped without blocking.
	for i := 0; i < 20; i++ {
		pool.SpotReleased("A01")
	}
	assert.Len(t, pool.jobs, cap(pool.jobs))
}
