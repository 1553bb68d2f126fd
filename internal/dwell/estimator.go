// Package dwell estimates how long guests stay, using Little's law on
// the door counters: average time in system = occupancy / arrival rate.
package dwell

import (
	"math"

	"venue-pulse/internal/models"
)

// Estimates outside this window are treated as counter noise.
const (
	MinMinutes = 1.0
	MaxMinutes = 1440.0
	MinWindowH = 0.25
)

// Rejection reasons. An unreliable estimate is an answer ("we cannot
// tell yet"), not an error.
const (
	ReasonNoEntries   = "no_entries"
	ReasonNoOccupancy = "no_occupancy"
	ReasonShortWindow = "window_too_short"
	ReasonImplausible = "implausible"
)

// Estimate is a dwell time answer. Minutes is only meaningful when
// Reliable is true; otherwise Reason says why the math was refused.
type Estimate struct {
	Minutes  float64 `json:"minutes"`
	Reliable bool    `json:"reliable"`
	Reason   string  `json:"reason,omitempty"`

	Entries      int     `json:"entries"`
	AvgOccupancy float64 `json:"avg_occupancy"`
	WindowHours  float64 `json:"window_hours"`
}

// EntriesDelta turns two cumulative counter readings into an entry
// count. Counters reset daily on the device, so a negative delta means
// a reset happened and the window's count is unknowable.
func EntriesDelta(latest, earliest int) int {
	if latest < earliest {
		return 0
	}
	return latest - earliest
}

// CalculateDwell applies Little's law: with E entries over H hours and
// an average of L people inside, the arrival rate is E/H per hour and
// the average visit lasts (L / rate) hours.
func CalculateDwell(entries int, avgOccupancy, windowHours float64) Estimate {
	est := Estimate{
		Entries:      entries,
		AvgOccupancy: avgOccupancy,
		WindowHours:  windowHours,
	}

	// 1. Guard the inputs. Division by a near-zero rate produces
	// impressive nonsense.
	if windowHours < MinWindowH {
		est.Reason = ReasonShortWindow
		return est
	}
	if entries <= 0 {
		est.Reason = ReasonNoEntries
		return est
	}
	if avgOccupancy <= 0 {
		est.Reason = ReasonNoOccupancy
		return est
	}

	// 2. Little's law
	rate := float64(entries) / windowHours
	minutes := (avgOccupancy / rate) * 60

	// 3. Sanity window: under a minute or over a day is counter noise
	if minutes < MinMinutes || minutes > MaxMinutes {
		est.Reason = ReasonImplausible
		return est
	}

	est.Minutes = math.Round(minutes*10) / 10
	est.Reliable = true
	return est
}

// EstimateFromReadings assembles the law's inputs from raw readings:
// entries from the first and last cumulative counters, occupancy as the
// average of what the sensor saw, the window from the actual sample
// timestamps. Readings without occupancy data are skipped.
func EstimateFromReadings(readings []models.SensorReading) Estimate {
	var (
		first, last *models.SensorReading
		occSum      float64
		occN        int
	)
	for i := range readings {
		r := &readings[i]
		if !r.HasOccupancy() {
			continue
		}
		if first == nil {
			first = r
		}
		last = r
		occSum += float64(r.Occupancy.Current)
		occN++
	}

	if occN == 0 {
		return Estimate{Reason: ReasonNoOccupancy}
	}

	entries := EntriesDelta(last.Occupancy.Entries, first.Occupancy.Entries)
	window := last.Timestamp.Sub(first.Timestamp).Hours()
	return CalculateDwell(entries, occSum/float64(occN), window)
}
