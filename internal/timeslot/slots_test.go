package timeslot

import (
	"testing"
	"time"
)

// Helper to construct a Time object for a specific Day/Hour
func getTestTime(weekday time.Weekday, hour int) time.Time {
	// Pick a known anchor date (Jan 1 2024 was a Monday)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	daysToAdd := int(weekday) - int(base.Weekday())
	return base.AddDate(0, 0, daysToAdd).Add(time.Duration(hour) * time.Hour)
}

func TestResolveBoundaries(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want string
	}{
		{"Monday morning is daytime", getTestTime(time.Monday, 10), Daytime},
		{"Monday 15:59 block still daytime", getTestTime(time.Monday, 15), Daytime},
		{"Monday 16:00 flips to happy hour", getTestTime(time.Monday, 16), WeekdayHappyHour},
		{"Thursday 18:00 still happy hour", getTestTime(time.Thursday, 18), WeekdayHappyHour},
		{"Thursday 19:00 flips to weekday night", getTestTime(time.Thursday, 19), WeekdayNight},
		{"Monday 23:00 weekday night", getTestTime(time.Monday, 23), WeekdayNight},
		{"Friday noon is daytime", getTestTime(time.Friday, 12), Daytime},
		{"Friday 16:00 early", getTestTime(time.Friday, 16), FridayEarly},
		{"Friday 20:00 still early", getTestTime(time.Friday, 20), FridayEarly},
		{"Friday 21:00 peak", getTestTime(time.Friday, 21), FridayPeak},
		{"Saturday 20:00 early", getTestTime(time.Saturday, 20), SaturdayEarly},
		{"Saturday 23:00 peak", getTestTime(time.Saturday, 23), SaturdayPeak},
		{"Sunday 03:00 funday", getTestTime(time.Sunday, 3), SundayFunday},
		{"Sunday 22:00 funday", getTestTime(time.Sunday, 22), SundayFunday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.time); got != tt.want {
				t.Errorf("Resolve(%v) = %q, want %q", tt.time, got, tt.want)
			}
		})
	}
}

// Every one of the 168 hours in a week must land in a slot, no gaps.
func TestResolveCoversWholeWeek(t *testing.T) {
	valid := make(map[string]bool, len(AllSlots))
	for _, s := range AllSlots {
		valid[s] = true
	}

	seen := make(map[string]int)
	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			ts := getTestTime(time.Weekday(day), hour)
			slot := Resolve(ts)
			if !valid[slot] {
				t.Fatalf("Hour %s %02d:00 resolved to unknown slot %q", ts.Weekday(), hour, slot)
			}
			seen[slot]++
		}
	}

	// Sanity on the shape of the week
	if seen[SundayFunday] != 24 {
		t.Errorf("Sunday should own 24 hours, got %d", seen[SundayFunday])
	}
	if seen[Daytime] != 6*16 {
		t.Errorf("Daytime should own 96 hours, got %d", seen[Daytime])
	}
	total := 0
	for _, n := range seen {
		total += n
	}
	if total != 168 {
		t.Errorf("Week has %d covered hours, want 168", total)
	}
}

func TestInZone(t *testing.T) {
	// 23:00 UTC on a Friday is already Saturday in Berlin
	utc := time.Date(2024, 1, 5, 23, 30, 0, 0, time.UTC)

	local := InZone(utc, "Europe/Berlin")
	if local.Weekday() != time.Saturday {
		t.Errorf("Expected Berlin time to be Saturday, got %s", local.Weekday())
	}

	// Garbage zone must degrade to UTC, not panic
	fallback := InZone(utc, "Mars/Olympus_Mons")
	if fallback.Weekday() != time.Friday || fallback.Hour() != 23 {
		t.Errorf("Expected UTC fallback Friday 23:00, got %s %02d:00", fallback.Weekday(), fallback.Hour())
	}
}
