package pulse

import (
	"venue-pulse/internal/models"
	"venue-pulse/internal/timeslot"
)

// Range provenance tags, in precedence order.
const (
	SourceBestNight  = "best_night"
	SourceLearned    = "learned"
	SourceCalibrated = "calibrated"
	SourceDefault    = "default"
)

// Best-night bands give one notch of room around the proven center.
const (
	bestNightSoundTolerance = 5.0
	bestNightLuxTolerance   = 50.0
)

// RangeSource defines the common interface for anything that can supply
// comfort bands. The resolver walks sources in precedence order and the
// first available one wins; factors it cannot cover fall through to the
// terminal default source.
type RangeSource interface {
	Name() string

	// Available is the acceptance predicate: does this source have
	// enough trust and data to drive scoring right now?
	Available() bool

	SoundBand() (timeslot.Band, bool)
	LightBand() (timeslot.Band, bool)

	// Weights lets a source substitute its own factor blend. Most
	// sources keep the baseline.
	Weights(base Weights) Weights
}

// ResolvedRanges is the outcome of walking the source chain.
type ResolvedRanges struct {
	Sound       timeslot.Band
	SoundSource string
	Light       timeslot.Band
	LightSource string

	// Source is the winning source's provenance tag.
	Source  string
	Weights Weights
}

// ResolveRanges walks the chain and returns the first available
// source's ranges and weights. The last source must always be
// available; it also backfills any factor the winner cannot cover.
func ResolveRanges(base Weights, sources ...RangeSource) ResolvedRanges {
	terminal := sources[len(sources)-1]

	var winner RangeSource
	for _, src := range sources {
		if src.Available() {
			winner = src
			break
		}
	}
	if winner == nil {
		winner = terminal
	}

	out := ResolvedRanges{
		Source:  winner.Name(),
		Weights: winner.Weights(base),
	}

	if band, ok := winner.SoundBand(); ok {
		out.Sound = band
		out.SoundSource = winner.Name()
	} else if band, ok := terminal.SoundBand(); ok {
		out.Sound = band
		out.SoundSource = terminal.Name()
	}

	if band, ok := winner.LightBand(); ok {
		out.Light = band
		out.LightSource = winner.Name()
	} else if band, ok := terminal.LightBand(); ok {
		out.Light = band
		out.LightSource = terminal.Name()
	}

	return out
}

// BestNightSource offers bands built around a venue's proven best night
// in the current slot. Narrow on purpose: it is an aspirational target,
// not a comfort zone.
type BestNightSource struct {
	Profile       *models.BestNightProfile
	MinConfidence float64
}

func (s *BestNightSource) Name() string { return SourceBestNight }

func (s *BestNightSource) Available() bool {
	return s.Profile != nil &&
		s.Profile.Confidence >= s.MinConfidence &&
		(s.Profile.AvgDecibels > 0 || s.Profile.AvgLux > 0)
}

func (s *BestNightSource) SoundBand() (timeslot.Band, bool) {
	if s.Profile == nil || s.Profile.AvgDecibels <= 0 {
		return timeslot.Band{}, false
	}
	return timeslot.Band{
		Min: s.Profile.AvgDecibels - bestNightSoundTolerance,
		Max: s.Profile.AvgDecibels + bestNightSoundTolerance,
	}, true
}

func (s *BestNightSource) LightBand() (timeslot.Band, bool) {
	if s.Profile == nil || s.Profile.AvgLux <= 0 {
		return timeslot.Band{}, false
	}
	lo := s.Profile.AvgLux - bestNightLuxTolerance
	if lo < 0 {
		lo = 0
	}
	return timeslot.Band{Min: lo, Max: s.Profile.AvgLux + bestNightLuxTolerance}, true
}

// Best night keeps the baseline blend.
func (s *BestNightSource) Weights(base Weights) Weights { return base }

// LearnedSource offers the learner's per-venue optimal ranges. It is
// gated on the venue's overall learning confidence, not on any single
// range's tightness.
type LearnedSource struct {
	Ranges             *models.VenueOptimalRanges
	LearningConfidence float64
	MinConfidence      float64
}

func (s *LearnedSource) Name() string { return SourceLearned }

func (s *LearnedSource) Available() bool {
	return s.Ranges != nil &&
		s.LearningConfidence >= s.MinConfidence &&
		(s.Ranges.Sound.Valid() || s.Ranges.Light.Valid())
}

func (s *LearnedSource) SoundBand() (timeslot.Band, bool) {
	if s.Ranges == nil || !s.Ranges.Sound.Valid() {
		return timeslot.Band{}, false
	}
	return timeslot.Band{Min: s.Ranges.Sound.Min, Max: s.Ranges.Sound.Max}, true
}

func (s *LearnedSource) LightBand() (timeslot.Band, bool) {
	if s.Ranges == nil || !s.Ranges.Light.Valid() {
		return timeslot.Band{}, false
	}
	return timeslot.Band{Min: s.Ranges.Light.Min, Max: s.Ranges.Light.Max}, true
}

// When learned ranges win, the learned weights come with them.
func (s *LearnedSource) Weights(base Weights) Weights {
	if s.Ranges == nil {
		return base
	}
	learned := Weights{
		Sound: s.Ranges.WeightSound,
		Light: s.Ranges.WeightLight,
		Crowd: s.Ranges.WeightCrowd,
		Music: s.Ranges.WeightMusic,
	}
	if learned.IsZero() {
		return base
	}
	return learned.Normalize()
}

// CalibratedSource offers whatever ranges the operator typed in. The
// sound and light pairs are independent; either can be set alone.
type CalibratedSource struct {
	Settings *models.VenueSettings
}

func (s *CalibratedSource) Name() string { return SourceCalibrated }

func (s *CalibratedSource) Available() bool {
	return s.Settings != nil && (s.Settings.SoundCalibrated() || s.Settings.LightCalibrated())
}

func (s *CalibratedSource) SoundBand() (timeslot.Band, bool) {
	if s.Settings == nil || !s.Settings.SoundCalibrated() {
		return timeslot.Band{}, false
	}
	return timeslot.Band{Min: *s.Settings.SoundMin, Max: *s.Settings.SoundMax}, true
}

func (s *CalibratedSource) LightBand() (timeslot.Band, bool) {
	if s.Settings == nil || !s.Settings.LightCalibrated() {
		return timeslot.Band{}, false
	}
	return timeslot.Band{Min: *s.Settings.LightMin, Max: *s.Settings.LightMax}, true
}

func (s *CalibratedSource) Weights(base Weights) Weights { return base }

// DefaultSource offers the slot profile's bands. Always available, so
// it terminates every chain.
type DefaultSource struct {
	Profile timeslot.SlotProfile
}

func (s *DefaultSource) Name() string { return SourceDefault }

func (s *DefaultSource) Available() bool { return true }

func (s *DefaultSource) SoundBand() (timeslot.Band, bool) {
	return s.Profile.Sound, s.Profile.Sound.Valid()
}

func (s *DefaultSource) LightBand() (timeslot.Band, bool) {
	return s.Profile.Light, s.Profile.Light.Valid()
}

func (s *DefaultSource) Weights(base Weights) Weights { return base }
