package ingest

import (
	"context"
	"testing"
	"time"

	"venue-pulse/internal/config"
	"venue-pulse/internal/genre"
	"venue-pulse/internal/models"
	"venue-pulse/internal/store"
)

func newTestWorker(st store.Store) *Worker {
	return New(&config.Config{}, st, genre.NewMatcher("keyword", ""))
}

// currentHour anchors readings inside the running hour so the rows stay
// within the history window whenever the test executes.
func currentHour() time.Time {
	return time.Now().UTC().Truncate(time.Hour)
}

func TestProcessStoresAndRolls(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	if err := mem.SaveVenue(ctx, &models.Venue{ID: "blue-door", Name: "Blue Door", Timezone: "UTC"}); err != nil {
		t.Fatalf("seed venue: %v", err)
	}

	w := newTestWorker(mem)
	base := currentHour()
	for i, db := range []float64{70, 72, 74} {
		reading := &models.SensorReading{
			VenueID:   "blue-door",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Decibels:  db,
			Lux:       120,
		}
		if err := w.Process(ctx, reading); err != nil {
			t.Fatalf("Process failed: %v", err)
		}
	}

	latest, err := mem.LatestReading(ctx, "blue-door")
	if err != nil || latest == nil {
		t.Fatalf("Expected stored reading, got %v (%v)", latest, err)
	}
	if latest.Decibels != 74 {
		t.Errorf("Latest mismatch! got %.0f dB", latest.Decibels)
	}

	rows, err := mem.HourlyHistory(ctx, "blue-door", 2)
	if err != nil {
		t.Fatalf("HourlyHistory failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 hourly row, got %d", len(rows))
	}
	if rows[0].AvgDecibels != 72 || rows[0].SampleCount != 3 {
		t.Errorf("Roll-up mismatch! got %.1f dB over %d samples", rows[0].AvgDecibels, rows[0].SampleCount)
	}
	if rows[0].Hour != base.Hour() {
		t.Errorf("Hour mismatch! got %d, want %d", rows[0].Hour, base.Hour())
	}
}

func TestProcessRegistersUnknownVenue(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	w := newTestWorker(mem)

	reading := &models.SensorReading{VenueID: "pop-up", Timestamp: currentHour(), Decibels: 65}
	if err := w.Process(ctx, reading); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	venue, err := mem.GetVenue(ctx, "pop-up")
	if err != nil || venue == nil {
		t.Fatalf("Expected auto-registered venue, got %v (%v)", venue, err)
	}
	if venue.Name != "pop-up" || venue.Timezone != "UTC" {
		t.Errorf("Stub venue mismatch! got %+v", venue)
	}
}

func TestProcessRaisesPeak(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	if err := mem.SaveVenue(ctx, &models.Venue{ID: "blue-door", Name: "Blue Door"}); err != nil {
		t.Fatalf("seed venue: %v", err)
	}

	w := newTestWorker(mem)
	base := currentHour()
	for i, occ := range []int{55, 30} {
		reading := &models.SensorReading{
			VenueID:   "blue-door",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Occupancy: &models.OccupancySnapshot{Current: occ},
		}
		if err := w.Process(ctx, reading); err != nil {
			t.Fatalf("Process failed: %v", err)
		}
	}

	venue, _ := mem.GetVenue(ctx, "blue-door")
	if venue.PeakOccupancy != 55 {
		t.Errorf("Peak mismatch! got %d, want 55", venue.PeakOccupancy)
	}
}

func TestProcessHourRollover(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	w := newTestWorker(mem)

	base := currentHour().Add(-time.Hour)
	first := &models.SensorReading{VenueID: "blue-door", Timestamp: base.Add(30 * time.Minute), Decibels: 70}
	second := &models.SensorReading{VenueID: "blue-door", Timestamp: base.Add(90 * time.Minute), Decibels: 80}

	if err := w.Process(ctx, first); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if err := w.Process(ctx, second); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	rows, err := mem.HourlyHistory(ctx, "blue-door", 2)
	if err != nil {
		t.Fatalf("HourlyHistory failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 hourly rows after rollover, got %d", len(rows))
	}
	if rows[0].AvgDecibels != 70 || rows[1].AvgDecibels != 80 {
		t.Errorf("Rows mismatch! got %.0f and %.0f", rows[0].AvgDecibels, rows[1].AvgDecibels)
	}
}

func TestProcessRejectsBlankVenue(t *testing.T) {
	w := newTestWorker(store.NewMemoryStore())
	if err := w.Process(context.Background(), &models.SensorReading{Timestamp: currentHour()}); err == nil {
		t.Error("Expected an error for a reading without venue id")
	}
}

func TestProcessDetectsGenres(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	w := newTestWorker(mem)

	reading := &models.SensorReading{
		VenueID:   "blue-door",
		Timestamp: currentHour(),
		Decibels:  72,
		Song:      "Midnight House Anthem",
		Artist:    "DJ Example",
	}
	if err := w.Process(ctx, reading); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	rows, _ := mem.HourlyHistory(ctx, "blue-door", 2)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].Genres != "house" {
		t.Errorf("Genres mismatch! got %q, want %q", rows[0].Genres, "house")
	}
}

func TestProcessRecordsScoreEvent(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	w := newTestWorker(mem)

	ts := currentHour().Add(5 * time.Minute)
	reading := &models.SensorReading{VenueID: "blue-door", Timestamp: ts, Decibels: 72, Lux: 150}
	if err := w.Process(ctx, reading); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	events, err := mem.ScoresSince(ctx, "blue-door", ts.Add(-time.Minute))
	if err != nil || len(events) != 1 {
		t.Fatalf("Expected 1 score event, got %d (%v)", len(events), err)
	}
	if events[0].Score < 0 || events[0].Score > 100 {
		t.Errorf("Score out of bounds: %.1f", events[0].Score)
	}
	if events[0].SlotKey == "" {
		t.Error("Event should carry the resolved slot")
	}
	if events[0].RangeSource != "default" {
		t.Errorf("Fresh venue should score on defaults, got %s", events[0].RangeSource)
	}
}

func TestExtractVenueID(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"venue/blue-door/reading", "blue-door"},
		{"venue/casa-ritmo/reading", "casa-ritmo"},
		{"garbage", ""},
	}
	for _, tt := range tests {
		if got := extractVenueID(tt.topic); got != tt.want {
			t.Errorf("extractVenueID(%q) mismatch! got %q, want %q", tt.topic, got, tt.want)
		}
	}
}
