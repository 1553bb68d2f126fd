package learning

import (
	"log"
	"math"
	"sort"

	"venue-pulse/internal/models"
)

// Music keeps a fixed share of the blend: the hourly rows carry no
// numeric music series to learn a variance from.
const musicBaselineWeight = 0.15

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func stddev(vals []float64, m float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vals)))
}

// usableRows keeps the hours that have an outcome to learn from.
func usableRows(rows []models.HourlyPerformance) []models.HourlyPerformance {
	out := make([]models.HourlyPerformance, 0, len(rows))
	for _, r := range rows {
		if r.DwellMinutes > 0 {
			out = append(out, r)
		}
	}
	return out
}

type factorStats struct {
	rng      models.OptimalRange
	variance float64
	samples  int
}

// analyzeFactor derives one factor's band and dispersion from the
// winning hours. Fewer than two samples yields an invalid (unusable)
// range.
func analyzeFactor(vals []float64, p Params) factorStats {
	if len(vals) < 2 {
		return factorStats{samples: len(vals)}
	}

	m := mean(vals)
	sd := stddev(vals, m)

	lo := m - p.SigmaBand*sd
	if lo < 0 {
		lo = 0
	}
	return factorStats{
		rng: models.OptimalRange{
			Min:        lo,
			Max:        m + p.SigmaBand*sd,
			Confidence: rangeConfidence(m, sd, p),
		},
		variance: sd * sd,
		samples:  len(vals),
	}
}

// LearnRanges recomputes a venue's optimal ranges from scratch.
//
// The top slice by dwell time defines "winning" hours; each factor's
// band brackets the mean of those hours, and the factor weights follow
// the variance shares (a factor that swings a lot among winners is the
// one the room actually responds to). Returns nil when there is not
// enough usable history yet.
func LearnRanges(venueID string, rows []models.HourlyPerformance, p Params) *models.VenueOptimalRanges {
	usable := usableRows(rows)
	if len(usable) < p.MinPoints {
		return nil
	}

	// 1. Rank by outcome, best first
	sort.Slice(usable, func(i, j int) bool {
		return usable[i].DwellMinutes > usable[j].DwellMinutes
	})

	// 2. Keep the winning slice
	topN := int(math.Ceil(float64(len(usable)) * p.TopPercentile))
	if topN < 1 {
		topN = 1
	}
	top := usable[:topN]

	// 3. Per-factor series, absent hours excluded
	var sound, light, temp, humidity, crowd []float64
	dwellSum := 0.0
	for _, r := range top {
		dwellSum += r.DwellMinutes
		if r.AvgDecibels > 0 {
			sound = append(sound, r.AvgDecibels)
		}
		if r.AvgLux > 0 {
			light = append(light, r.AvgLux)
		}
		if r.AvgTempC != 0 {
			temp = append(temp, r.AvgTempC)
		}
		if r.AvgHumidity > 0 {
			humidity = append(humidity, r.AvgHumidity)
		}
		if r.AvgOccupancy > 0 {
			crowd = append(crowd, r.AvgOccupancy)
		}
	}

	soundStats := analyzeFactor(sound, p)
	lightStats := analyzeFactor(light, p)
	tempStats := analyzeFactor(temp, p)
	humidityStats := analyzeFactor(humidity, p)
	crowdStats := analyzeFactor(crowd, p)

	out := &models.VenueOptimalRanges{
		VenueID:        venueID,
		Sound:          soundStats.rng,
		Light:          lightStats.rng,
		Temp:           tempStats.rng,
		Humidity:       humidityStats.rng,
		BenchmarkDwell: dwellSum / float64(len(top)),
		DataPoints:     len(usable),
		UniqueDays:     uniqueDays(usable),
	}

	// 4. Weights from variance shares
	out.WeightSound, out.WeightLight, out.WeightCrowd, out.WeightMusic =
		learnWeights(venueID, soundStats.variance, lightStats.variance, crowdStats.variance)

	return out
}

// learnWeights splits the non-music weight mass by variance share.
// Zero total variance means the winners all look alike, which tells us
// nothing about what matters; fall back to equal shares.
func learnWeights(venueID string, varSound, varLight, varCrowd float64) (sound, light, crowd, music float64) {
	music = musicBaselineWeight
	mass := 1 - musicBaselineWeight

	total := varSound + varLight + varCrowd
	if total <= 0 {
		log.Printf("⚠️ [%s] Zero variance among top hours, keeping equal weights", venueID)
		equal := mass / 3
		return equal, equal, equal, music
	}

	return mass * varSound / total, mass * varLight / total, mass * varCrowd / total, music
}
