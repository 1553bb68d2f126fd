package models

import "time"

// OptimalRange is a learned comfort band for a single factor, with the
// learner's confidence in it (0-1).
type OptimalRange struct {
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Confidence float64 `json:"confidence"`
}

// Valid reports whether the range is usable for scoring.
func (r OptimalRange) Valid() bool { return r.Max > r.Min }

// VenueOptimalRanges is the learner's current output for one venue.
// Each learning cycle replaces the row wholesale; partial updates would
// mix ranges from different training sets.
type VenueOptimalRanges struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	VenueID string `gorm:"uniqueIndex;size:64" json:"venue_id"`

	Sound    OptimalRange `gorm:"embedded;embeddedPrefix:sound_" json:"sound"`
	Light    OptimalRange `gorm:"embedded;embeddedPrefix:light_" json:"light"`
	Temp     OptimalRange `gorm:"embedded;embeddedPrefix:temp_" json:"temp"`
	Humidity OptimalRange `gorm:"embedded;embeddedPrefix:humidity_" json:"humidity"`

	// Learned factor weights. They sum to 1 when set; all-zero means
	// the learner has not produced weights yet and the engine keeps
	// its baseline.
	WeightSound float64 `json:"weight_sound"`
	WeightLight float64 `json:"weight_light"`
	WeightCrowd float64 `json:"weight_crowd"`
	WeightMusic float64 `json:"weight_music"`

	// Confidence is the cycle's learning confidence, recorded with the
	// row it produced. The live gate reads the run audit trail instead,
	// this copy is for dashboards inspecting the ranges directly.
	Confidence float64 `json:"confidence"`

	// BenchmarkDwell is the mean dwell of the winning hours, the
	// outcome the bands aim at.
	BenchmarkDwell float64 `json:"benchmark_dwell"`

	// DataPoints counts the hourly rows the cycle trained on,
	// UniqueDays the distinct days they spanned.
	DataPoints int    `json:"data_points"`
	UniqueDays int    `json:"unique_days"`
	LastRunID  string `gorm:"size:36" json:"last_run_id,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}
