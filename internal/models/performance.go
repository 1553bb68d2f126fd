package models

import "time"

// HourlyPerformance is one venue-hour of rolled-up telemetry. The
// ingester upserts a row per (venue, date, hour); the learner reads them
// back as its training set.
//
// Date is the venue-local calendar day in "2006-01-02" form, Hour the
// local hour 0-23. Averages cover only the samples where the sensor was
// actually present, so a 0 keeps the same "no data" meaning it has on
// raw readings.
type HourlyPerformance struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	VenueID string `gorm:"uniqueIndex:idx_venue_hour;size:64" json:"venue_id"`
	Date    string `gorm:"uniqueIndex:idx_venue_hour;size:10" json:"date"`
	Hour    int    `gorm:"uniqueIndex:idx_venue_hour" json:"hour"`

	AvgDecibels  float64 `json:"avg_decibels"`
	AvgLux       float64 `json:"avg_lux"`
	AvgTempC     float64 `json:"avg_temp_c"`
	AvgHumidity  float64 `json:"avg_humidity"`
	AvgOccupancy float64 `json:"avg_occupancy"`
	MaxOccupancy int     `json:"max_occupancy"`

	// Entries and Exits are deltas for the hour, derived from the
	// device's cumulative counters.
	Entries int `json:"entries"`
	Exits   int `json:"exits"`

	// DwellMinutes is the Little's law estimate for the hour.
	// 0 means the estimate was rejected as unreliable, never "zero
	// minutes".
	DwellMinutes float64 `json:"dwell_minutes"`

	// Genres heard during the hour, comma separated, most frequent
	// first.
	Genres string `json:"genres,omitempty"`

	SampleCount int       `json:"sample_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}
