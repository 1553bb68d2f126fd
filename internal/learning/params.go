package learning

import "venue-pulse/internal/config"

// Params collects the learner's tunables. The numbers are empirical,
// carried as configuration rather than hard invariants so a deployment
// can retune them without a release.
type Params struct {
	// How far back the training window reaches.
	HistoryDays int

	// Share of hours (by dwell time) that count as "winning".
	TopPercentile float64

	// Learned bands span mean +/- SigmaBand standard deviations.
	SigmaBand float64

	// Minimum usable hourly rows before any learning happens.
	MinPoints int

	// Minimum hourly rows in a slot before a best night is declared.
	MinSlotSamples int

	// Learning-confidence model: points volume carries most of the
	// trust, days of history add a small bonus, and the result stays
	// inside [FloorConfidence, CapConfidence].
	PointsTarget    float64
	PointsCap       float64
	DaysDivisor     float64
	DaysCap         float64
	FloorConfidence float64
	CapConfidence   float64

	// Reported instead of a real confidence when history cannot be
	// fetched at all.
	ErrorBaseline float64

	// Per-range confidence bounds (dispersion based).
	RangeConfFloor float64
	RangeConfCap   float64

	// Best-night confidence model.
	SlotSamplesTarget float64
	SlotSamplesCap    float64
	SlotNightsTarget  float64
	SlotNightsCap     float64
}

func DefaultParams() Params {
	return Params{
		HistoryDays:    180,
		TopPercentile:  0.20,
		SigmaBand:      0.75,
		MinPoints:      20,
		MinSlotSamples: 6,

		PointsTarget:    1250,
		PointsCap:       0.80,
		DaysDivisor:     100,
		DaysCap:         0.15,
		FloorConfidence: 0.30,
		CapConfidence:   0.95,
		ErrorBaseline:   0.50,

		RangeConfFloor: 0.5,
		RangeConfCap:   1.0,

		SlotSamplesTarget: 50,
		SlotSamplesCap:    0.60,
		SlotNightsTarget:  20,
		SlotNightsCap:     0.35,
	}
}

// FromConfig starts from the defaults and applies the knobs the
// deployment exposes. Unset knobs keep their default.
func FromConfig(cfg *config.Config) Params {
	p := DefaultParams()
	if cfg.Learning.HistoryDays > 0 {
		p.HistoryDays = cfg.Learning.HistoryDays
	}
	if cfg.Learning.TopPercentile > 0 {
		p.TopPercentile = cfg.Learning.TopPercentile
	}
	if cfg.Learning.SigmaBand > 0 {
		p.SigmaBand = cfg.Learning.SigmaBand
	}
	if cfg.Learning.MinPoints > 0 {
		p.MinPoints = cfg.Learning.MinPoints
	}
	if cfg.Learning.MinSlotSamples > 0 {
		p.MinSlotSamples = cfg.Learning.MinSlotSamples
	}
	if cfg.Learning.PointsTarget > 0 {
		p.PointsTarget = cfg.Learning.PointsTarget
	}
	return p
}
