package pulse

import (
	"math"

	"venue-pulse/internal/models"
	"venue-pulse/internal/timeslot"
)

// Crowd penalties are asymmetric. An empty room is a worse signal than
// a packed one, so deficits cost more per point and overcrowding never
// drops below a floor: too many guests is still a kind of success.
const (
	belowPenaltyPerPoint = 2.0
	abovePenaltyPerPoint = 1.5
	overcrowdedFloor     = 20.0
	minFallbackCapacity  = 50
)

// EffectiveCapacity returns the capacity used for occupancy math.
// When the venue never entered one, a working figure is derived from
// the busiest moment on record plus headroom.
func EffectiveCapacity(venue *models.Venue) int {
	if venue.Capacity > 0 {
		return venue.Capacity
	}
	derived := int(math.Round(float64(venue.PeakOccupancy) * 1.2))
	if derived < minFallbackCapacity {
		return minFallbackCapacity
	}
	return derived
}

// OccupancyPct converts a head count to a percentage of capacity.
func OccupancyPct(current, capacity int) float64 {
	if capacity <= 0 || current <= 0 {
		return 0
	}
	return float64(current) / float64(capacity) * 100
}

// ScoreCrowd grades an occupancy percentage against the slot's target
// band.
func ScoreCrowd(pct float64, band timeslot.Band) float64 {
	if !band.Valid() {
		return 0
	}
	if pct >= band.Min && pct <= band.Max {
		return 100
	}

	if pct < band.Min {
		deficit := band.Min - pct
		return clamp(100-belowPenaltyPerPoint*deficit, 0, 100)
	}

	excess := pct - band.Max
	return clamp(100-abovePenaltyPerPoint*excess, overcrowdedFloor, 100)
}
