package models

import "time"

// BestNightProfile captures a venue's single best night in one time
// slot: the sound and light levels, the turnout and the genres that
// were playing. The score engine prefers it over learned or calibrated
// ranges once confidence is high enough.
type BestNightProfile struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	VenueID string `gorm:"uniqueIndex:idx_venue_slot;size:64" json:"venue_id"`
	SlotKey string `gorm:"uniqueIndex:idx_venue_slot;size:32" json:"slot_key"`

	// Date of the winning night, venue-local "2006-01-02".
	Date string `gorm:"size:10" json:"date"`

	// Center values of the winning night. Scoring bands are built
	// around them with a notch of tolerance either side.
	AvgDecibels float64 `json:"avg_decibels"`
	AvgLux      float64 `json:"avg_lux"`
	AvgTempC    float64 `json:"avg_temp_c"`

	TotalGuests int `json:"total_guests"`

	// Genres heard that night, comma separated.
	Genres string `json:"genres,omitempty"`

	// Confidence grows with how much slot history backs the pick:
	// Nights counts distinct dates seen in this slot, Samples the
	// hourly rows behind them.
	Confidence float64 `json:"confidence"`
	Nights     int     `json:"nights"`
	Samples    int     `json:"samples"`

	UpdatedAt time.Time `json:"updated_at"`
}
