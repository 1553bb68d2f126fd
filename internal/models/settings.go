package models

import "time"

// VenueSettings holds operator-entered calibration for one venue.
// Calibration pairs are pointers so "not set" and "set to zero" stay
// distinguishable; a pair only participates in range selection when
// both ends are present and min < max.
type VenueSettings struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	VenueID string `gorm:"uniqueIndex;size:64" json:"venue_id"`

	SoundMin *float64 `json:"sound_min,omitempty"`
	SoundMax *float64 `json:"sound_max,omitempty"`
	LightMin *float64 `json:"light_min,omitempty"`
	LightMax *float64 `json:"light_max,omitempty"`

	// TargetOccupancyPct overrides the slot's occupancy band center
	// when set (band becomes target±15).
	TargetOccupancyPct *float64 `json:"target_occupancy_pct,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// SoundCalibrated reports whether a usable sound range is configured.
func (s *VenueSettings) SoundCalibrated() bool {
	return s.SoundMin != nil && s.SoundMax != nil && *s.SoundMax > *s.SoundMin
}

// LightCalibrated reports whether a usable light range is configured.
func (s *VenueSettings) LightCalibrated() bool {
	return s.LightMin != nil && s.LightMax != nil && *s.LightMax > *s.LightMin
}
