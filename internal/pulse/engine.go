package pulse

import (
	"math"
	"strings"
	"time"

	"venue-pulse/internal/genre"
	"venue-pulse/internal/models"
	"venue-pulse/internal/timeslot"
	"venue-pulse/internal/utils"
)

// Params tune the engine without touching code. Zero values are
// replaced by DefaultParams in NewEngine.
type Params struct {
	// Composite thresholds: >= Optimal is optimal, >= Good is good,
	// anything below is poor.
	OptimalThreshold float64
	GoodThreshold    float64

	// MinRangeConfidence gates best-night profiles and learned ranges
	// out of the selection chain until they have earned some trust.
	MinRangeConfidence float64
}

func DefaultParams() Params {
	return Params{
		OptimalThreshold:   80,
		GoodThreshold:      60,
		MinRangeConfidence: 0.30,
	}
}

// Engine computes pulse scores. It is pure: callers fetch the venue
// state and hand it over, which keeps scoring testable without a
// database.
type Engine struct {
	matcher genre.Matcher
	params  Params
}

func NewEngine(matcher genre.Matcher, params Params) *Engine {
	if params.OptimalThreshold <= 0 {
		params.OptimalThreshold = DefaultParams().OptimalThreshold
	}
	if params.GoodThreshold <= 0 {
		params.GoodThreshold = DefaultParams().GoodThreshold
	}
	if params.MinRangeConfidence <= 0 {
		params.MinRangeConfidence = DefaultParams().MinRangeConfidence
	}
	return &Engine{matcher: matcher, params: params}
}

// Inputs is the venue state the engine scores against. Any of the
// pointers may be nil; the chain degrades to the slot defaults.
type Inputs struct {
	Slot    string
	Profile timeslot.SlotProfile

	Settings  *models.VenueSettings
	Learned   *models.VenueOptimalRanges
	BestNight *models.BestNightProfile

	// LearningConfidence gates the learned source and is echoed in the
	// result. It describes the learner's overall trust level, not any
	// single range.
	LearningConfidence float64
}

// Compute scores one reading. Absent factors shed their weight onto
// the present ones; a reading with no usable factor at all comes back
// as no_data with a zero score.
func (e *Engine) Compute(venue *models.Venue, reading *models.SensorReading, in Inputs) *Result {
	now := reading.Timestamp
	if now.IsZero() {
		now = time.Now()
	}

	res := &Result{
		VenueID:            venue.ID,
		Slot:               in.Slot,
		SlotLabel:          in.Profile.Label,
		LearningConfidence: in.LearningConfidence,
		ComputedAt:         now,
	}

	// 1. Which factors actually delivered data?
	hasSound := reading.HasSound()
	hasLight := reading.HasLight()
	hasCrowd := reading.HasOccupancy()
	hasMusic := reading.HasMusic()

	if !hasSound && !hasLight && !hasCrowd && !hasMusic {
		res.Status = StatusNoData
		res.RangeSource = SourceDefault
		res.Label = LabelFor(StatusNoData, SourceDefault)
		return res
	}

	// 2. Walk the source chain: ranges, weights and provenance come
	// from the first source that qualifies
	ranges := e.Resolve(in)
	res.RangeSource = ranges.Source

	// 3. Shed the weight of absent factors onto the present ones
	weights := ranges.Weights.Redistribute(hasSound, hasLight, hasCrowd, hasMusic)
	res.Weights = weights

	// 4. Score each present factor
	if hasSound {
		band := ranges.Sound
		res.Breakdown.Sound = FactorScore{
			Present: true,
			Value:   reading.Decibels,
			Score:   ScoreRange(reading.Decibels, band),
			Weight:  weights.Sound,
			Band:    &band,
			Source:  ranges.SoundSource,
		}
	}
	if hasLight {
		band := ranges.Light
		res.Breakdown.Light = FactorScore{
			Present: true,
			Value:   reading.Lux,
			Score:   ScoreRange(reading.Lux, band),
			Weight:  weights.Light,
			Band:    &band,
			Source:  ranges.LightSource,
		}
	}
	if hasCrowd {
		res.Breakdown.Crowd = e.scoreCrowd(venue, reading, in, weights.Crowd)
	}
	if hasMusic {
		res.Breakdown.Music = e.scoreMusic(reading, in, weights.Music)
	}

	// 5. Blend, round to a whole score, classify
	composite := res.Breakdown.Sound.Score*weights.Sound +
		res.Breakdown.Light.Score*weights.Light +
		res.Breakdown.Crowd.Score*weights.Crowd +
		res.Breakdown.Music.Score*weights.Music

	res.Score = math.Round(clamp(composite, 0, 100))
	res.Status = e.classify(res.Score)
	res.Label = LabelFor(res.Status, res.RangeSource)
	return res
}

// Resolve walks the source chain for the given venue state without
// scoring anything. The ranges endpoint uses it to show which bands
// are live and where they came from.
func (e *Engine) Resolve(in Inputs) ResolvedRanges {
	return ResolveRanges(DefaultWeights(),
		&BestNightSource{Profile: in.BestNight, MinConfidence: e.params.MinRangeConfidence},
		&LearnedSource{
			Ranges:             in.Learned,
			LearningConfidence: in.LearningConfidence,
			MinConfidence:      e.params.MinRangeConfidence,
		},
		&CalibratedSource{Settings: in.Settings},
		&DefaultSource{Profile: in.Profile},
	)
}

// CrowdBand is the occupancy band in effect: the slot default, or the
// operator target widened by 15 points either side.
func (e *Engine) CrowdBand(in Inputs) (timeslot.Band, string) {
	if in.Settings != nil && in.Settings.TargetOccupancyPct != nil {
		target := *in.Settings.TargetOccupancyPct
		return timeslot.Band{Min: clamp(target-15, 0, 100), Max: clamp(target+15, 0, 100)}, SourceCalibrated
	}
	return in.Profile.Occupancy, SourceDefault
}

func (e *Engine) classify(score float64) string {
	switch {
	case score >= e.params.OptimalThreshold:
		return StatusOptimal
	case score >= e.params.GoodThreshold:
		return StatusGood
	default:
		return StatusPoor
	}
}

func (e *Engine) scoreCrowd(venue *models.Venue, reading *models.SensorReading, in Inputs, weight float64) FactorScore {
	capacity := EffectiveCapacity(venue)
	pct := OccupancyPct(reading.Occupancy.Current, capacity)

	band, source := e.CrowdBand(in)

	return FactorScore{
		Present: true,
		Value:   math.Round(pct*10) / 10,
		Score:   ScoreCrowd(pct, band),
		Weight:  weight,
		Band:    &band,
		Source:  source,
	}
}

func (e *Engine) scoreMusic(reading *models.SensorReading, in Inputs, weight float64) FactorScore {
	var bestNightGenres []string
	if in.BestNight != nil && in.BestNight.Confidence >= e.params.MinRangeConfidence {
		bestNightGenres = utils.SplitCSV(in.BestNight.Genres)
	}

	match := e.matcher.Score(reading.Song, reading.Artist, in.Profile.Genres, bestNightGenres)

	detail := match.Reason
	if len(match.Detected) > 0 {
		detail = match.Reason + ": " + strings.Join(match.Detected, ",")
	}
	return FactorScore{
		Present: true,
		Score:   match.Score,
		Weight:  weight,
		Detail:  detail,
	}
}
