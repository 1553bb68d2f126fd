package learning

import (
	"math"
	"sort"
	"time"

	"venue-pulse/internal/models"
	"venue-pulse/internal/timeslot"
	"venue-pulse/internal/utils"
)

// slotForRow maps one hourly row back onto the weekly slot grid. Dates
// are stored venue-local, so the weekday read here is the one guests
// experienced.
func slotForRow(r models.HourlyPerformance) string {
	day, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return ""
	}
	return timeslot.Resolve(time.Date(day.Year(), day.Month(), day.Day(), r.Hour, 0, 0, 0, time.UTC))
}

// BuildBestNights finds, for every time slot with enough history, the
// single date that kept guests longest and freezes its conditions into
// a reference profile. Slots below the sample threshold produce no
// profile at all.
func BuildBestNights(venueID string, rows []models.HourlyPerformance, p Params) []models.BestNightProfile {
	bySlot := make(map[string][]models.HourlyPerformance)
	for _, r := range rows {
		if r.DwellMinutes <= 0 {
			continue
		}
		slot := slotForRow(r)
		if slot == "" {
			continue
		}
		bySlot[slot] = append(bySlot[slot], r)
	}

	var profiles []models.BestNightProfile
	for _, slot := range timeslot.AllSlots {
		slotRows := bySlot[slot]
		if len(slotRows) < p.MinSlotSamples {
			continue
		}

		byDate := make(map[string][]models.HourlyPerformance)
		for _, r := range slotRows {
			byDate[r.Date] = append(byDate[r.Date], r)
		}

		// The winner is the date whose hours averaged the longest
		// dwell. Ties go to the earlier date so reruns stay stable.
		dates := make([]string, 0, len(byDate))
		for d := range byDate {
			dates = append(dates, d)
		}
		sort.Strings(dates)

		bestDate, bestDwell := "", 0.0
		for _, d := range dates {
			var dwell []float64
			for _, r := range byDate[d] {
				dwell = append(dwell, r.DwellMinutes)
			}
			if avg := mean(dwell); avg > bestDwell {
				bestDate, bestDwell = d, avg
			}
		}
		if bestDate == "" {
			continue
		}

		profiles = append(profiles,
			buildProfile(venueID, slot, bestDate, byDate[bestDate], len(slotRows), len(byDate), p))
	}
	return profiles
}

func buildProfile(venueID, slot, date string, dayRows []models.HourlyPerformance, samples, nights int, p Params) models.BestNightProfile {
	var sound, lux, temp []float64
	guests := 0
	genreCount := make(map[string]int)

	for _, r := range dayRows {
		if r.AvgDecibels > 0 {
			sound = append(sound, r.AvgDecibels)
		}
		if r.AvgLux > 0 {
			lux = append(lux, r.AvgLux)
		}
		if r.AvgTempC != 0 {
			temp = append(temp, r.AvgTempC)
		}
		guests += r.Entries
		for _, g := range utils.SplitCSV(r.Genres) {
			genreCount[g]++
		}
	}

	conf := math.Min(p.SlotSamplesCap, float64(samples)/p.SlotSamplesTarget) +
		math.Min(p.SlotNightsCap, float64(nights)/p.SlotNightsTarget)
	if conf > p.CapConfidence {
		conf = p.CapConfidence
	}

	return models.BestNightProfile{
		VenueID:     venueID,
		SlotKey:     slot,
		Date:        date,
		AvgDecibels: mean(sound),
		AvgLux:      mean(lux),
		AvgTempC:    mean(temp),
		TotalGuests: guests,
		Genres:      utils.JoinCSV(topGenres(genreCount, 5)),
		Confidence:  conf,
		Nights:      nights,
		Samples:     samples,
	}
}

// topGenres ranks by how many hours a genre showed up in, most first.
func topGenres(counts map[string]int, limit int) []string {
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
