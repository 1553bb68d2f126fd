package learning

import (
	"testing"

	"venue-pulse/internal/models"
	"venue-pulse/internal/timeslot"
)

// fridayPeakRows covers 21:00-23:00 on one date, the whole Friday peak
// window for that night.
func fridayPeakRows(date string, dwell float64, genres string) []models.HourlyPerformance {
	rows := make([]models.HourlyPerformance, 0, 3)
	for _, h := range []int{21, 22, 23} {
		rows = append(rows, models.HourlyPerformance{
			VenueID:      "blue-door",
			Date:         date,
			Hour:         h,
			AvgDecibels:  74,
			AvgLux:       80,
			AvgTempC:     22,
			Entries:      30,
			DwellMinutes: dwell,
			Genres:       genres,
		})
	}
	return rows
}

func TestBuildBestNightsPicksWinningDate(t *testing.T) {
	p := DefaultParams()

	// Two Fridays in Jan 2024; the 12th kept guests longer
	rows := append(fridayPeakRows("2024-01-05", 90, "house,techno"),
		fridayPeakRows("2024-01-12", 140, "house,latin")...)

	profiles := BuildBestNights("blue-door", rows, p)
	if len(profiles) != 1 {
		t.Fatalf("Expected 1 profile, got %d", len(profiles))
	}

	prof := profiles[0]
	if prof.SlotKey != timeslot.FridayPeak {
		t.Errorf("Slot mismatch! got %s, want %s", prof.SlotKey, timeslot.FridayPeak)
	}
	if prof.Date != "2024-01-12" {
		t.Errorf("Winning date mismatch! got %s, want 2024-01-12", prof.Date)
	}
	if prof.Samples != 6 || prof.Nights != 2 {
		t.Errorf("Counts mismatch! got samples=%d nights=%d, want 6 and 2", prof.Samples, prof.Nights)
	}
	if prof.TotalGuests != 90 {
		t.Errorf("TotalGuests mismatch! got %d, want 90", prof.TotalGuests)
	}
	if prof.Genres != "house,latin" {
		t.Errorf("Genres mismatch! got %q, want %q", prof.Genres, "house,latin")
	}
	if !almost(prof.AvgDecibels, 74) || !almost(prof.AvgLux, 80) || !almost(prof.AvgTempC, 22) {
		t.Errorf("Averages mismatch! got dB=%.1f lux=%.1f temp=%.1f", prof.AvgDecibels, prof.AvgLux, prof.AvgTempC)
	}

	// min(0.60, 6/50) + min(0.35, 2/20)
	if !almost(prof.Confidence, 0.22) {
		t.Errorf("Confidence mismatch! got %.4f, want 0.22", prof.Confidence)
	}
}

func TestBuildBestNightsSampleThreshold(t *testing.T) {
	p := DefaultParams()

	// A single night gives only 3 samples, below the minimum of 6
	profiles := BuildBestNights("blue-door", fridayPeakRows("2024-01-05", 120, "house"), p)
	if len(profiles) != 0 {
		t.Errorf("Expected no profiles below the sample threshold, got %d", len(profiles))
	}
}

func TestBuildBestNightsIgnoresDwellless(t *testing.T) {
	p := DefaultParams()

	rows := append(fridayPeakRows("2024-01-05", 120, "house"),
		fridayPeakRows("2024-01-12", 0, "techno")...)

	// 3 usable rows once the dwell-less night drops out
	profiles := BuildBestNights("blue-door", rows, p)
	if len(profiles) != 0 {
		t.Errorf("Expected dwell-less rows to be ignored, got %d profiles", len(profiles))
	}
}

func TestBuildBestNightsSundaySlot(t *testing.T) {
	p := DefaultParams()

	// Any Sunday hour lands in the Sunday slot, afternoon included
	var rows []models.HourlyPerformance
	for _, h := range []int{12, 13, 14, 15, 16, 17} {
		rows = append(rows, models.HourlyPerformance{
			VenueID:      "blue-door",
			Date:         "2024-01-07",
			Hour:         h,
			AvgDecibels:  65,
			Entries:      10,
			DwellMinutes: 80,
			Genres:       "funk,soul",
		})
	}

	profiles := BuildBestNights("blue-door", rows, p)
	if len(profiles) != 1 {
		t.Fatalf("Expected 1 profile, got %d", len(profiles))
	}
	if profiles[0].SlotKey != timeslot.SundayFunday {
		t.Errorf("Slot mismatch! got %s, want %s", profiles[0].SlotKey, timeslot.SundayFunday)
	}
	if profiles[0].Nights != 1 {
		t.Errorf("Nights mismatch! got %d, want 1", profiles[0].Nights)
	}
}
