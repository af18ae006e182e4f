package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"parking-status-backend/internal/parking"
	"parking-status-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store      store.Store
	svc        *parking.Service
	webpush    *webpush.Options
	windowDays int
}

// NewHandler creates a new API handler. windowDays bounds the default report
// window when the caller gives no explicit range.
func NewHandler(s store.Store, svc *parking.Service, webpushOptions *webpush.Options, windowDays int) *Handler {
	if windowDays <= 0 {
		windowDays = 7
	}
	return &Handler{
		store:      s,
		svc:        svc,
		webpush:    webpushOptions,
		windowDays: windowDays,
	}
}
