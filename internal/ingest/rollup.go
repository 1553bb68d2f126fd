package ingest

import (
	"sort"
	"time"

	"venue-pulse/internal/dwell"
	"venue-pulse/internal/models"
	"venue-pulse/internal/utils"
)

// bucket accumulates one venue-local hour. Averages count only the
// readings where the sensor actually reported, so a venue without a
// light meter ends the hour with AvgLux 0, not a diluted number.
type bucket struct {
	date string
	hour int

	first time.Time
	last  time.Time

	soundSum float64
	soundN   int
	luxSum   float64
	luxN     int
	tempSum  float64
	tempN    int
	humSum   float64
	humN     int

	occSum float64
	occN   int
	occMax int

	// Cumulative device counters at the edges of the hour.
	firstEntries int
	lastEntries  int
	firstExits   int
	lastExits    int
	haveCounters bool

	genres  map[string]int
	samples int
}

func newBucket(date string, hour int) *bucket {
	return &bucket{date: date, hour: hour, genres: make(map[string]int)}
}

func (b *bucket) add(r *models.SensorReading, genres []string) {
	if b.first.IsZero() || r.Timestamp.Before(b.first) {
		b.first = r.Timestamp
	}
	if r.Timestamp.After(b.last) {
		b.last = r.Timestamp
	}

	if r.HasSound() {
		b.soundSum += r.Decibels
		b.soundN++
	}
	if r.HasLight() {
		b.luxSum += r.Lux
		b.luxN++
	}
	if r.HasTemp() {
		b.tempSum += r.TempC
		b.tempN++
	}
	if r.HasHumidity() {
		b.humSum += r.Humidity
		b.humN++
	}

	if r.HasOccupancy() {
		b.occSum += float64(r.Occupancy.Current)
		b.occN++
		if r.Occupancy.Current > b.occMax {
			b.occMax = r.Occupancy.Current
		}
		if !b.haveCounters {
			b.firstEntries = r.Occupancy.Entries
			b.firstExits = r.Occupancy.Exits
			b.haveCounters = true
		}
		b.lastEntries = r.Occupancy.Entries
		b.lastExits = r.Occupancy.Exits
	}

	for _, g := range genres {
		b.genres[g]++
	}
	b.samples++
}

func avg(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// row freezes the bucket into an upsertable hourly record.
func (b *bucket) row(venueID string) *models.HourlyPerformance {
	entries := dwell.EntriesDelta(b.lastEntries, b.firstEntries)
	exits := dwell.EntriesDelta(b.lastExits, b.firstExits)
	avgOcc := avg(b.occSum, b.occN)

	row := &models.HourlyPerformance{
		VenueID:      venueID,
		Date:         b.date,
		Hour:         b.hour,
		AvgDecibels:  avg(b.soundSum, b.soundN),
		AvgLux:       avg(b.luxSum, b.luxN),
		AvgTempC:     avg(b.tempSum, b.tempN),
		AvgHumidity:  avg(b.humSum, b.humN),
		AvgOccupancy: avgOcc,
		MaxOccupancy: b.occMax,
		Entries:      entries,
		Exits:        exits,
		Genres:       utils.JoinCSV(rankGenres(b.genres, 5)),
		SampleCount:  b.samples,
	}

	// An estimate that fails its sanity checks stays 0, meaning
	// "unknown", never "zero minutes"
	window := b.last.Sub(b.first).Hours()
	if est := dwell.CalculateDwell(entries, avgOcc, window); est.Reliable {
		row.DwellMinutes = est.Minutes
	}
	return row
}

func rankGenres(counts map[string]int, limit int) []string {
	names := make([]string, 0, len(counts))
	for g := range counts {
		names = append(names, g)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}
