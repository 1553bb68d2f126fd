package pulse

// Factor names used in weights, breakdowns and provenance tags.
const (
	FactorSound = "sound"
	FactorLight = "light"
	FactorCrowd = "crowd"
	FactorMusic = "music"
)

// Weights is the blend of the four factors. A usable set sums to 1.
type Weights struct {
	Sound float64 `json:"sound"`
	Light float64 `json:"light"`
	Crowd float64 `json:"crowd"`
	Music float64 `json:"music"`
}

// DefaultWeights is the baseline blend: sound dominates because bad
// sound clears a room faster than anything else.
func DefaultWeights() Weights {
	return Weights{Sound: 0.40, Light: 0.25, Crowd: 0.20, Music: 0.15}
}

// Sum returns the total weight mass.
func (w Weights) Sum() float64 {
	return w.Sound + w.Light + w.Crowd + w.Music
}

// Redistribute zeroes the weights of absent factors and renormalizes
// the rest so they still sum to 1. With nothing present it returns the
// zero Weights; the caller reports no_data instead of scoring.
func (w Weights) Redistribute(hasSound, hasLight, hasCrowd, hasMusic bool) Weights {
	out := w
	if !hasSound {
		out.Sound = 0
	}
	if !hasLight {
		out.Light = 0
	}
	if !hasCrowd {
		out.Crowd = 0
	}
	if !hasMusic {
		out.Music = 0
	}

	total := out.Sum()
	if total <= 0 {
		return Weights{}
	}
	out.Sound /= total
	out.Light /= total
	out.Crowd /= total
	out.Music /= total
	return out
}

// Normalize scales a non-zero set to sum exactly 1. Used on learned
// weights before blending, so drift in stored values cannot skew the
// composite.
func (w Weights) Normalize() Weights {
	total := w.Sum()
	if total <= 0 {
		return DefaultWeights()
	}
	return Weights{
		Sound: w.Sound / total,
		Light: w.Light / total,
		Crowd: w.Crowd / total,
		Music: w.Music / total,
	}
}

// IsZero reports whether no factor carries weight.
func (w Weights) IsZero() bool {
	return w.Sum() == 0
}
