package learning

import "math"

// DataConfidence says how much the learned state should be trusted
// over generic defaults. It is driven purely by volume and spread of
// history, never by how good the outcomes were.
//
// The floor keeps a freshly onboarded venue from flapping between
// "uninitialized" and "barely initialized"; the cap keeps the system
// from ever claiming certainty about a live room.
func DataConfidence(dataPoints, uniqueDays int, p Params) float64 {
	points := math.Min(p.PointsCap, float64(dataPoints)/p.PointsTarget)
	daysBonus := math.Min(p.DaysCap, float64(uniqueDays)/p.DaysDivisor)

	return clampF(points+daysBonus, p.FloorConfidence, p.CapConfidence)
}

// rangeConfidence grades one learned band by dispersion: tight
// clustering among the winning hours means the band is trustworthy.
func rangeConfidence(mean, stddev float64, p Params) float64 {
	if mean <= 0 {
		return p.RangeConfFloor
	}
	return clampF(1-stddev/mean, p.RangeConfFloor, p.RangeConfCap)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
