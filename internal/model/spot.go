package model

import "time"

// SpotStatus is the binary occupancy state of a parking spot.
type SpotStatus string

const (
	StatusAvailable SpotStatus = "available"
	StatusOccupied  SpotStatus = "occupied"
)

// Valid reports whether the status is one of the two accepted values.
func (s SpotStatus) Valid() bool {
	return s == StatusAvailable || s == StatusOccupied
}

// ParkingSpot represents one physical parking space. The fleet is provisioned
// once at startup and spots are never deleted; only the status fields change.
type ParkingSpot struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	SpotID     string     `gorm:"uniqueIndex;size:8;not null" json:"spot_id"`
	Section    string     `gorm:"index;size:4;not null" json:"section"`
	Status     SpotStatus `gorm:"size:16;not null" json:"status"`
	OccupiedBy *string    `gorm:"size:64" json:"occupied_by"`
	OccupiedAt *time.Time `json:"occupied_at"`
	ReleasedAt *time.Time `json:"released_at"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}
