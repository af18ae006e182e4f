package store

import (
	"time"

	"parking-status-backend/internal/model"
	"parking-status-backend/internal/parse"
)

// BuildFleet constructs the fixed set of spots for the given sections, all
// initially available. Spot identifiers follow the <Section><2-digit> form.
func BuildFleet(sections []string, spotsPerSection int, now time.Time) []model.ParkingSpot {
	spots := make([]model.ParkingSpot, 0, len(sections)*spotsPerSection)
	for _, section := range sections {
		for i := 1; i <= spotsPerSection; i++ {
			spots = append(spots, model.ParkingSpot{
				SpotID:    parse.FormatSpotID(section, i),
				Section:   section,
				Status:    model.StatusAvailable,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
	}
	return spots
}
