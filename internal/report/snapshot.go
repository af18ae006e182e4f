package report

import (
	"fmt"
	"math"
	"time"

	"parking-status-backend/internal/model"
)

// ParkingStats are the current registry counts.
type ParkingStats struct {
	TotalSpots     int     `json:"total_spots"`
	OccupiedSpots  int     `json:"occupied_spots"`
	AvailableSpots int     `json:"available_spots"`
	OccupancyRate  float64 `json:"occupancy_rate"`
}

// UsageStats are event-derived usage metrics.
type UsageStats struct {
	TotalCarsToday int     `json:"total_cars_today"`
	AvgParkingTime float64 `json:"avg_parking_time"`
	AvgUsersPerDay int     `json:"avg_users_per_day"`
}

// HistoryStats describe the event log as a whole.
type HistoryStats struct {
	TotalRecords       int     `json:"total_records"`
	TotalReleases      int     `json:"total_releases"`
	TotalDurationHours float64 `json:"total_duration_hours"`
}

// Snapshot is the full analytics view served by the reports API.
type Snapshot struct {
	ParkingStats ParkingStats `json:"parking_stats"`
	UsageStats   UsageStats   `json:"usage_stats"`
	HistoryStats HistoryStats `json:"history_stats"`
}

// CountSpots computes registry counts. An empty registry yields a rate of 0
// rather than dividing by zero.
func CountSpots(spots []model.ParkingSpot) ParkingStats {
	stats := ParkingStats{TotalSpots: len(spots)}
	for _, spot := range spots {
		if spot.Status == model.StatusOccupied {
			stats.OccupiedSpots++
		}
	}
	stats.AvailableSpots = stats.TotalSpots - stats.OccupiedSpots
	if stats.TotalSpots > 0 {
		stats.OccupancyRate = round1(float64(stats.OccupiedSpots) / float64(stats.TotalSpots) * 100)
	}
	return stats
}

// BuildSnapshot combines the registry snapshot with event-derived metrics as
// of now. Distinct occupy users over the trailing 7 days divided by 7 gives
// AvgUsersPerDay, rounded to the nearest integer.
func BuildSnapshot(spots []model.ParkingSpot, events []model.ParkingEvent, now time.Time) (Snapshot, error) {
	snap := Snapshot{ParkingStats: CountSpots(spots)}

	today := DayBucket(now)
	weekAgo := now.Add(-7 * 24 * time.Hour)
	recentUsers := make(map[string]struct{})
	totalDuration := 0

	for _, ev := range events {
		if ev.Timestamp.IsZero() {
			return Snapshot{}, fmt.Errorf("%w: event %d for spot %s has no timestamp", ErrMalformedEvent, ev.ID, ev.SpotID)
		}

		snap.HistoryStats.TotalRecords++
		switch ev.Action {
		case model.ActionOccupy:
			if DayBucket(ev.Timestamp) == today {
				snap.UsageStats.TotalCarsToday++
			}
			if !ev.Timestamp.Before(weekAgo) {
				recentUsers[ev.UserID] = struct{}{}
			}
		case model.ActionRelease:
			snap.HistoryStats.TotalReleases++
			if ev.DurationMinutes != nil {
				totalDuration += *ev.DurationMinutes
			}
		}
	}

	if snap.HistoryStats.TotalReleases > 0 {
		snap.UsageStats.AvgParkingTime = round1(float64(totalDuration) / float64(snap.HistoryStats.TotalReleases) / 60)
	}
	snap.UsageStats.AvgUsersPerDay = int(math.Round(float64(len(recentUsers)) / 7))
	snap.HistoryStats.TotalDurationHours = round1(float64(totalDuration) / 60)

	return snap, nil
}
