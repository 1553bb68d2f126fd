package dwell

import (
	"testing"
	"time"

	"venue-pulse/internal/models"
)

func TestCalculateDwell(t *testing.T) {
	// 20 entries over 2 hours with 30 people inside on average:
	// rate 10/hour, so the average guest stays 3 hours.
	got := CalculateDwell(20, 30, 2)

	if !got.Reliable {
		t.Fatalf("Expected reliable estimate, got reason %q", got.Reason)
	}
	if got.Minutes != 180 {
		t.Errorf("Minutes = %.1f, want 180", got.Minutes)
	}
}

func TestCalculateDwellRejections(t *testing.T) {
	tests := []struct {
		name       string
		entries    int
		occupancy  float64
		hours      float64
		wantReason string
	}{
		{"No entries", 0, 30, 2, ReasonNoEntries},
		{"Empty room", 20, 0, 2, ReasonNoOccupancy},
		{"Window too short", 20, 30, 0.1, ReasonShortWindow},
		{"Negative window", 20, 30, -1, ReasonShortWindow},
		{"Absurdly long stay", 1, 500, 8, ReasonImplausible},
		{"Absurdly short stay", 10000, 1, 1, ReasonImplausible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDwell(tt.entries, tt.occupancy, tt.hours)
			if got.Reliable {
				t.Fatalf("Expected rejection, got %.1f minutes", got.Minutes)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
			if got.Minutes != 0 {
				t.Errorf("Rejected estimate should carry 0 minutes, got %.1f", got.Minutes)
			}
		})
	}
}

func TestCalculateDwellBounds(t *testing.T) {
	// Exactly 24 hours is still plausible
	got := CalculateDwell(1, 24, 1)
	if !got.Reliable || got.Minutes != 1440 {
		t.Errorf("24h stay should pass, got %+v", got)
	}

	// The quarter-hour window is the inclusive minimum
	got = CalculateDwell(5, 10, 0.25)
	if !got.Reliable {
		t.Errorf("15 minute window should pass, got reason %q", got.Reason)
	}
}

func TestEntriesDelta(t *testing.T) {
	if got := EntriesDelta(150, 100); got != 50 {
		t.Errorf("EntriesDelta(150, 100) = %d, want 50", got)
	}
	// Counter reset mid-window
	if got := EntriesDelta(10, 400); got != 0 {
		t.Errorf("EntriesDelta after reset = %d, want 0", got)
	}
	if got := EntriesDelta(75, 75); got != 0 {
		t.Errorf("EntriesDelta with no movement = %d, want 0", got)
	}
}

func TestEstimateFromReadings(t *testing.T) {
	base := time.Date(2024, 1, 5, 20, 0, 0, 0, time.UTC)

	readings := []models.SensorReading{
		{VenueID: "blue-door", Timestamp: base, Decibels: 70}, // no occupancy, skipped
		{VenueID: "blue-door", Timestamp: base.Add(10 * time.Minute),
			Occupancy: &models.OccupancySnapshot{Current: 28, Entries: 100}},
		{VenueID: "blue-door", Timestamp: base.Add(70 * time.Minute),
			Occupancy: &models.OccupancySnapshot{Current: 32, Entries: 110}},
		{VenueID: "blue-door", Timestamp: base.Add(130 * time.Minute),
			Occupancy: &models.OccupancySnapshot{Current: 30, Entries: 120}},
	}

	got := EstimateFromReadings(readings)
	if !got.Reliable {
		t.Fatalf("Expected a reliable estimate, got reason %q", got.Reason)
	}
	// 20 entries over the 2h span with 30 inside on average: 180 minutes
	if got.Minutes != 180 {
		t.Errorf("Minutes mismatch! got %.1f, want 180", got.Minutes)
	}
	if got.Entries != 20 || got.WindowHours != 2 {
		t.Errorf("Inputs mismatch! entries=%d window=%.2f", got.Entries, got.WindowHours)
	}
}

func TestEstimateFromReadingsNoOccupancy(t *testing.T) {
	readings := []models.SensorReading{
		{VenueID: "blue-door", Timestamp: time.Now(), Decibels: 70},
	}
	got := EstimateFromReadings(readings)
	if got.Reliable || got.Reason != ReasonNoOccupancy {
		t.Errorf("Expected %q, got %+v", ReasonNoOccupancy, got)
	}
}
