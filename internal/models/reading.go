package models

import "time"

// OccupancySnapshot is the occupancy block of a sensor payload.
// Entries/Exits are cumulative counters that reset once a day on the
// device, so deltas must always be computed as latest-earliest.
type OccupancySnapshot struct {
	Current int `json:"current"`
	Entries int `json:"entries"`
	Exits   int `json:"exits"`
}

// SensorReading is one environmental snapshot as published by the venue
// gateway. Readings are ephemeral: the engine consumes them per call and
// the ingester rolls them up into HourlyPerformance rows.
//
// A zero Decibels or Lux means "sensor absent", not "measured zero":
// the hardware never reports a true 0 on either channel.
type SensorReading struct {
	VenueID   string    `json:"venue_id"`
	Timestamp time.Time `json:"timestamp"`

	Decibels float64 `json:"decibels"` // e.g., 74.5
	Lux      float64 `json:"lux"`      // e.g., 180
	TempC    float64 `json:"temp_c"`
	Humidity float64 `json:"humidity"` // percent, 0-100

	Occupancy *OccupancySnapshot `json:"occupancy,omitempty"`

	// Currently playing music, as reported by the venue's player
	// integration. Empty strings when nothing is playing.
	Song   string `json:"song,omitempty"`
	Artist string `json:"artist,omitempty"`
}

// HasSound reports whether the sound sensor delivered a measurement.
func (r *SensorReading) HasSound() bool { return r.Decibels > 0 }

// HasLight reports whether the light sensor delivered a measurement.
func (r *SensorReading) HasLight() bool { return r.Lux > 0 }

// HasTemp reports whether a temperature was measured. The gateways report
// temperature in °C and never exactly 0.0 indoors.
func (r *SensorReading) HasTemp() bool { return r.TempC != 0 }

// HasHumidity reports whether a humidity percentage was measured.
func (r *SensorReading) HasHumidity() bool { return r.Humidity > 0 }

// HasOccupancy reports whether the occupancy counter block is present.
func (r *SensorReading) HasOccupancy() bool { return r.Occupancy != nil }

// HasMusic reports whether any music metadata is attached.
func (r *SensorReading) HasMusic() bool { return r.Song != "" || r.Artist != "" }
