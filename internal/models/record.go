package models

import "time"

// ReadingRecord is the relational shape of a SensorReading. The wire
// struct stays flat JSON; this one carries the gorm tags.
type ReadingRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VenueID   string    `gorm:"index:idx_readings_venue_time;size:64" json:"venue_id"`
	Timestamp time.Time `gorm:"index:idx_readings_venue_time" json:"timestamp"`

	Decibels float64 `json:"decibels"`
	Lux      float64 `json:"lux"`
	TempC    float64 `json:"temp_c"`
	Humidity float64 `json:"humidity"`

	// HasOccupancy distinguishes "counter block missing" from a real
	// all-zero snapshot.
	HasOccupancy bool `json:"has_occupancy"`
	OccCurrent   int  `json:"occ_current"`
	OccEntries   int  `json:"occ_entries"`
	OccExits     int  `json:"occ_exits"`

	Song   string `json:"song,omitempty"`
	Artist string `json:"artist,omitempty"`
}

// NewReadingRecord flattens a reading for storage.
func NewReadingRecord(r *SensorReading) *ReadingRecord {
	rec := &ReadingRecord{
		VenueID:   r.VenueID,
		Timestamp: r.Timestamp,
		Decibels:  r.Decibels,
		Lux:       r.Lux,
		TempC:     r.TempC,
		Humidity:  r.Humidity,
		Song:      r.Song,
		Artist:    r.Artist,
	}
	if r.Occupancy != nil {
		rec.HasOccupancy = true
		rec.OccCurrent = r.Occupancy.Current
		rec.OccEntries = r.Occupancy.Entries
		rec.OccExits = r.Occupancy.Exits
	}
	return rec
}

// Reading rebuilds the wire shape.
func (rec *ReadingRecord) Reading() *SensorReading {
	r := &SensorReading{
		VenueID:   rec.VenueID,
		Timestamp: rec.Timestamp,
		Decibels:  rec.Decibels,
		Lux:       rec.Lux,
		TempC:     rec.TempC,
		Humidity:  rec.Humidity,
		Song:      rec.Song,
		Artist:    rec.Artist,
	}
	if rec.HasOccupancy {
		r.Occupancy = &OccupancySnapshot{
			Current: rec.OccCurrent,
			Entries: rec.OccEntries,
			Exits:   rec.OccExits,
		}
	}
	return r
}
