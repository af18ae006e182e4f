package model

import "time"

// EventAction is the kind of occupancy transition an event records.
type EventAction string

const (
	ActionOccupy  EventAction = "occupy"
	ActionRelease EventAction = "release"
)

// ParkingEvent is an immutable record of a single occupy or release action.
// DurationMinutes is populated on release events when the preceding occupy
// time is known; it is the rounded wall-clock minutes the spot was held.
type ParkingEvent struct {
	ID              int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	SpotID          string      `gorm:"index;size:8;not null" json:"spot_id"`
	UserID          string      `gorm:"size:64" json:"user_id"`
	Action          EventAction `gorm:"size:16;not null" json:"action"`
	Timestamp       time.Time   `gorm:"index;not null" json:"timestamp"`
	DurationMinutes *int        `json:"duration_minutes"`
}
