package pulse

import (
	"venue-pulse/internal/timeslot"
)

// ScoreRange grades a measured value against a comfort band.
//
// Inside the band is a perfect 100. Outside, the score falls off
// linearly and hits 0 once the value is half a band-width away from
// the nearer edge. A 60-80 dB band therefore tolerates down to 50 and
// up to 90 before giving up entirely.
func ScoreRange(value float64, band timeslot.Band) float64 {
	if !band.Valid() {
		return 0
	}

	// 1. Perfect when inside the band
	if value >= band.Min && value <= band.Max {
		return 100
	}

	// 2. Tolerance zone is half the band width on either side
	tolerance := (band.Max - band.Min) * 0.5
	if tolerance <= 0 {
		return 0
	}

	// 3. Linear falloff by distance to the nearer edge
	var distance float64
	if value < band.Min {
		distance = band.Min - value
	} else {
		distance = value - band.Max
	}
	if distance >= tolerance {
		return 0
	}

	return clamp(100*(1-distance/tolerance), 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
