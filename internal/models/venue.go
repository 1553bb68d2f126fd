package models

import "time"

// Venue is a monitored location. The ID doubles as the MQTT topic
// segment (venue/<id>/reading), so it must stay URL and topic safe.
type Venue struct {
	ID   string `gorm:"primaryKey;size:64" json:"id"`
	Name string `gorm:"not null" json:"name"`
	City string `json:"city,omitempty"`

	// Capacity is the licensed maximum occupancy. 0 means unknown, in
	// which case the engine derives a working capacity from the peak
	// occupancy ever observed.
	Capacity      int `json:"capacity"`
	PeakOccupancy int `json:"peak_occupancy"`

	// Timezone is an IANA name like "Europe/Berlin". Time slots are
	// resolved in venue local time; an empty or invalid zone degrades
	// to UTC.
	Timezone string `gorm:"default:UTC" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
