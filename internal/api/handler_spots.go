package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"parking-status-backend/internal/apperr"
	"parking-status-backend/internal/model"
	"parking-status-backend/internal/report"
)

// GetSpots handles GET /api/parking/spots.
func (h *Handler) GetSpots(c *gin.Context) {
	spots, err := h.store.ListSpots(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, spots, len(spots))
}

// GetSpot handles GET /api/parking/spots/:id.
func (h *Handler) GetSpot(c *gin.Context) {
	spot, err := h.store.GetSpot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, spot)
}

type putStatusRequest struct {
	Status string `json:"status"`
	UserID string `json:"user_id"`
}

// PutSpotStatus handles PUT /api/parking/spots/:id/status.
func (h *Handler) PutSpotStatus(c *gin.Context) {
	spotID := c.Param("id")

	var req putStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	spot, err := h.svc.SetSpotStatus(c.Request.Context(), spotID, model.SpotStatus(req.Status), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, spot, fmt.Sprintf("Parking spot %s status updated to %s", spotID, spot.Status))
}

// GetStats handles GET /api/parking/stats.
func (h *Handler) GetStats(c *gin.Context) {
	spots, err := h.store.ListSpots(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, report.CountSpots(spots))
}
