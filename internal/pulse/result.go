package pulse

import (
	"time"

	"venue-pulse/internal/timeslot"
)

// Score statuses.
const (
	StatusOptimal = "optimal"
	StatusGood    = "good"
	StatusPoor    = "poor"
	StatusNoData  = "no_data"
)

// Two label framings. When the venue's own history drives the ranges
// the wording sells the outcome; against generic defaults it stays
// neutral.
var (
	outcomeLabels = map[string]string{
		StatusOptimal: "Peak Performance",
		StatusGood:    "Strong Night",
		StatusPoor:    "Off the Pace",
		StatusNoData:  "No Data",
	}
	neutralLabels = map[string]string{
		StatusOptimal: "Optimal",
		StatusGood:    "Good",
		StatusPoor:    "Poor",
		StatusNoData:  "No Data",
	}
)

// LabelFor returns the display label for a status, framed by which
// range source produced the score.
func LabelFor(status, source string) string {
	labels := neutralLabels
	if source == SourceBestNight || source == SourceLearned {
		labels = outcomeLabels
	}
	if l, ok := labels[status]; ok {
		return l
	}
	return status
}

// FactorScore is one factor's contribution to the composite.
type FactorScore struct {
	Present bool    `json:"present"`
	Value   float64 `json:"value,omitempty"`
	Score   float64 `json:"score"`
	Weight  float64 `json:"weight"`

	Band   *timeslot.Band `json:"band,omitempty"`
	Source string         `json:"source,omitempty"`
	Detail string         `json:"detail,omitempty"`
}

// Breakdown carries all four factors.
type Breakdown struct {
	Sound FactorScore `json:"sound"`
	Light FactorScore `json:"light"`
	Crowd FactorScore `json:"crowd"`
	Music FactorScore `json:"music"`
}

// Result is one computed pulse score with everything the dashboard
// needs to explain it. Score is a whole number; the factor scores
// underneath keep their precision.
type Result struct {
	VenueID string  `json:"venue_id"`
	Score   float64 `json:"score"`
	Status  string  `json:"status"`
	Label   string  `json:"label"`

	Slot      string `json:"slot"`
	SlotLabel string `json:"slot_label"`

	RangeSource        string  `json:"range_source"`
	LearningConfidence float64 `json:"learning_confidence"`

	Weights   Weights   `json:"weights"`
	Breakdown Breakdown `json:"breakdown"`

	ComputedAt time.Time `json:"computed_at"`
}
