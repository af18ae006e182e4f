package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"parking-status-backend/internal/apperr"
	"parking-status-backend/internal/report"
)

// reportRows renames the generic bucket key to the label each report type
// uses on the wire ("date", "week_start", "month").
func reportRows(keyName string, summaries []report.Summary) []gin.H {
	rows := make([]gin.H, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, gin.H{
			keyName:            s.BucketKey,
			"total_cars":       s.TotalCars,
			"total_duration":   s.TotalDuration,
			"release_count":    s.ReleaseCount,
			"avg_parking_time": s.AvgParkingTime,
		})
	}
	return rows
}

// GetDailyReport handles GET /api/reports/daily. Optional start_date and
// end_date (YYYY-MM-DD, end inclusive) bound the event window; the default
// window is the trailing configured number of days.
func (h *Handler) GetDailyReport(c *gin.Context) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -h.windowDays)
	to := now.Add(time.Second)

	startParam := c.Query("start_date")
	endParam := c.Query("end_date")
	if startParam != "" && endParam != "" {
		start, err := time.Parse("2006-01-02", startParam)
		if err != nil {
			respondError(c, apperr.Validation("invalid start_date %q: use YYYY-MM-DD", startParam))
			return
		}
		end, err := time.Parse("2006-01-02", endParam)
		if err != nil {
			respondError(c, apperr.Validation("invalid end_date %q: use YYYY-MM-DD", endParam))
			return
		}
		from = start
		to = end.AddDate(0, 0, 1)
	}

	events, err := h.store.EventsBetween(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	summaries, err := report.Summarize(events, report.DayBucket)
	if err != nil {
		respondError(c, apperr.Unknown("failed to build daily report", err))
		return
	}
	rows := reportRows("date", summaries)
	respondList(c, rows, len(rows))
}

// GetWeeklyReport handles GET /api/reports/weekly over the full history.
func (h *Handler) GetWeeklyReport(c *gin.Context) {
	h.fullHistoryReport(c, "week_start", report.WeekBucket)
}

// GetMonthlyReport handles GET /api/reports/monthly over the full history.
func (h *Handler) GetMonthlyReport(c *gin.Context) {
	h.fullHistoryReport(c, "month", report.MonthBucket)
}

func (h *Handler) fullHistoryReport(c *gin.Context, keyName string, bucket report.BucketFunc) {
	events, err := h.store.AllEvents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	summaries, err := report.Summarize(events, bucket)
	if err != nil {
		respondError(c, apperr.Unknown("failed to build report", err))
		return
	}
	rows := reportRows(keyName, summaries)
	respondList(c, rows, len(rows))
}

// GetAnalytics handles GET /api/reports/analytics.
func (h *Handler) GetAnalytics(c *gin.Context) {
	ctx := c.Request.Context()

	spots, err := h.store.ListSpots(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	events, err := h.store.AllEvents(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	snapshot, err := report.BuildSnapshot(spots, events, time.Now().UTC())
	if err != nil {
		respondError(c, apperr.Unknown("failed to build analytics", err))
		return
	}
	respondData(c, snapshot)
}

// GetHistory handles GET /api/reports/history?limit=&offset=.
func (h *Handler) GetHistory(c *gin.Context) {
	limit, err := positiveIntQuery(c, "limit", 50)
	if err != nil {
		respondError(c, err)
		return
	}
	offset, err := positiveIntQuery(c, "offset", 0)
	if err != nil {
		respondError(c, err)
		return
	}

	events, err := h.store.EventsPage(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"data":    events,
		"count":   len(events),
		"pagination": gin.H{
			"limit":  limit,
			"offset": offset,
		},
	})
}

func positiveIntQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperr.Validation("invalid %s %q: must be a non-negative integer", name, raw)
	}
	return v, nil
}
