// Package report turns slices of parking events and registry snapshots into
// periodic usage summaries and a cross-sectional analytics view. Everything
// here is a pure function of its inputs; nothing reads the clock or a store.
package report

import (
	"errors"
	"fmt"
	"math"

	"parking-status-backend/internal/model"
)

// ErrMalformedEvent marks an event whose timestamp is unusable. Aggregation
// fails as a whole rather than silently skipping the record, so a corrupt
// log never produces a quietly wrong report.
var ErrMalformedEvent = errors.New("malformed parking event")

// Summary is one aggregated row for a single bucket.
type Summary struct {
	BucketKey      string  `json:"bucket_key"`
	TotalCars      int     `json:"total_cars"`
	TotalDuration  int     `json:"total_duration"`
	ReleaseCount   int     `json:"release_count"`
	AvgParkingTime float64 `json:"avg_parking_time"`
}

// Summarize groups events by bucket and accumulates per-bucket counters.
// Occupy events count cars; release events count releases and sum duration
// (a missing duration counts as 0). AvgParkingTime is hours, one decimal,
// and exactly 0 for a bucket with no releases. Input order is irrelevant;
// rows come back in first-seen bucket order.
func Summarize(events []model.ParkingEvent, bucket BucketFunc) ([]Summary, error) {
	type acc struct {
		totalCars     int
		totalDuration int
		releaseCount  int
	}

	accs := make(map[string]*acc)
	var order []string

	for _, ev := range events {
		if ev.Timestamp.IsZero() {
			return nil, fmt.Errorf("%w: event %d for spot %s has no timestamp", ErrMalformedEvent, ev.ID, ev.SpotID)
		}

		key := bucket(ev.Timestamp)
		a, ok := accs[key]
		if !ok {
			a = &acc{}
			accs[key] = a
			order = append(order, key)
		}

		switch ev.Action {
		case model.ActionOccupy:
			a.totalCars++
		case model.ActionRelease:
			a.releaseCount++
			if ev.DurationMinutes != nil {
				a.totalDuration += *ev.DurationMinutes
			}
		}
	}

	summaries := make([]Summary, 0, len(order))
	for _, key := range order {
		a := accs[key]
		row := Summary{
			BucketKey:     key,
			TotalCars:     a.totalCars,
			TotalDuration: a.totalDuration,
			ReleaseCount:  a.releaseCount,
		}
		if a.releaseCount > 0 {
			row.AvgParkingTime = round1(float64(a.totalDuration) / float64(a.releaseCount) / 60)
		}
		summaries = append(summaries, row)
	}
	return summaries, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
