package pulse

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"venue-pulse/internal/config"
	"venue-pulse/internal/learning"
	"venue-pulse/internal/models"
	"venue-pulse/internal/store"
	"venue-pulse/internal/timeslot"
)

var ErrVenueNotFound = errors.New("venue not found")

// ParamsFromConfig applies the deployment's threshold overrides.
func ParamsFromConfig(cfg *config.Config) Params {
	p := DefaultParams()
	if cfg.Engine.OptimalThreshold > 0 {
		p.OptimalThreshold = cfg.Engine.OptimalThreshold
	}
	if cfg.Engine.GoodThreshold > 0 {
		p.GoodThreshold = cfg.Engine.GoodThreshold
	}
	if cfg.Engine.MinRangeConfidence > 0 {
		p.MinRangeConfidence = cfg.Engine.MinRangeConfidence
	}
	return p
}

// Scorer computes live scores, pulling the engine's inputs out of the
// store. A fetch that fails degrades that input and logs; the only
// hard error is an unknown venue.
type Scorer struct {
	store  store.Store
	engine *Engine
}

func NewScorer(st store.Store, engine *Engine) *Scorer {
	return &Scorer{store: st, engine: engine}
}

// ScoreVenue scores a reading for the venue id, resolving the slot at
// time at. A nil reading means "no telemetry yet" and produces the
// no-data result.
func (s *Scorer) ScoreVenue(ctx context.Context, venueID string, reading *models.SensorReading, at time.Time) (*Result, error) {
	venue, err := s.store.GetVenue(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("venue lookup: %w", err)
	}
	if venue == nil {
		return nil, ErrVenueNotFound
	}
	return s.ScoreReading(ctx, venue, reading, at), nil
}

// ScoreReading scores against an already-loaded venue.
func (s *Scorer) ScoreReading(ctx context.Context, venue *models.Venue, reading *models.SensorReading, at time.Time) *Result {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	if reading == nil {
		reading = &models.SensorReading{VenueID: venue.ID, Timestamp: at}
	}
	return s.engine.Compute(venue, reading, s.assembleInputs(ctx, venue, at))
}

// assembleInputs gathers the venue state the engine works against.
// Fetch failures degrade to defaults; scoring must survive a flaky
// database read.
func (s *Scorer) assembleInputs(ctx context.Context, venue *models.Venue, at time.Time) Inputs {
	// 1. Which slot is the venue in at this moment, in its own zone?
	slot := timeslot.Resolve(timeslot.InZone(at, venue.Timezone))

	in := Inputs{
		Slot:    slot,
		Profile: timeslot.ProfileFor(slot),
	}

	// 2. Operator calibration
	settings, err := s.store.GetSettings(ctx, venue.ID)
	if err != nil {
		log.Printf("⚠️ [%s] Settings fetch failed, skipping calibration: %v", venue.ID, err)
	} else {
		in.Settings = settings
	}

	// 3. Learned ranges plus the learner's overall trust level
	learned, err := s.store.GetRanges(ctx, venue.ID)
	if err != nil {
		log.Printf("⚠️ [%s] Learned ranges fetch failed, falling back: %v", venue.ID, err)
	} else {
		in.Learned = learned
	}
	in.LearningConfidence = s.learningConfidence(ctx, venue.ID)

	// 4. Reference night for this slot
	bestNight, err := s.store.GetBestNight(ctx, venue.ID, slot)
	if err != nil {
		log.Printf("⚠️ [%s] Best night fetch failed, falling back: %v", venue.ID, err)
	} else {
		in.BestNight = bestNight
	}

	return in
}

// ActiveRanges is the range state the engine would score with at one
// moment: the resolved bands, their provenance, and the stored
// artifacts behind them.
type ActiveRanges struct {
	VenueID   string `json:"venue_id"`
	Slot      string `json:"slot"`
	SlotLabel string `json:"slot_label"`

	// Source is the winning provider; the per-factor tags differ from
	// it when a band was backfilled from the slot defaults.
	Source      string        `json:"source"`
	Sound       timeslot.Band `json:"sound"`
	SoundSource string        `json:"sound_source"`
	Light       timeslot.Band `json:"light"`
	LightSource string        `json:"light_source"`
	Crowd       timeslot.Band `json:"crowd"`
	CrowdSource string        `json:"crowd_source"`

	Weights            Weights `json:"weights"`
	LearningConfidence float64 `json:"learning_confidence"`

	Learned   *models.VenueOptimalRanges `json:"learned,omitempty"`
	BestNight *models.BestNightProfile   `json:"best_night,omitempty"`
}

// ActiveRanges resolves the source chain for venueID at time at,
// without computing a score.
func (s *Scorer) ActiveRanges(ctx context.Context, venueID string, at time.Time) (*ActiveRanges, error) {
	venue, err := s.store.GetVenue(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("venue lookup: %w", err)
	}
	if venue == nil {
		return nil, ErrVenueNotFound
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	in := s.assembleInputs(ctx, venue, at)
	resolved := s.engine.Resolve(in)
	crowd, crowdSource := s.engine.CrowdBand(in)

	return &ActiveRanges{
		VenueID:            venue.ID,
		Slot:               in.Slot,
		SlotLabel:          in.Profile.Label,
		Source:             resolved.Source,
		Sound:              resolved.Sound,
		SoundSource:        resolved.SoundSource,
		Light:              resolved.Light,
		LightSource:        resolved.LightSource,
		Crowd:              crowd,
		CrowdSource:        crowdSource,
		Weights:            resolved.Weights,
		LearningConfidence: in.LearningConfidence,
		Learned:            in.Learned,
		BestNight:          in.BestNight,
	}, nil
}

// learningConfidence reads the latest audit row. No run yet means the
// floor; a broken lookup means the error baseline, never a failure.
func (s *Scorer) learningConfidence(ctx context.Context, venueID string) float64 {
	p := learning.DefaultParams()
	runs, err := s.store.RunsForVenue(ctx, venueID, 1)
	if err != nil {
		log.Printf("⚠️ [%s] Confidence lookup failed, using baseline %.2f: %v", venueID, p.ErrorBaseline, err)
		return p.ErrorBaseline
	}
	if len(runs) == 0 {
		return p.FloorConfidence
	}
	return runs[0].Confidence
}

// RecordEvent persists the score for trends. Best effort: a failed
// write is logged, not returned.
func (s *Scorer) RecordEvent(ctx context.Context, res *Result) {
	event := &models.ScoreEvent{
		VenueID:     res.VenueID,
		Score:       res.Score,
		Status:      res.Status,
		SlotKey:     res.Slot,
		SoundScore:  res.Breakdown.Sound.Score,
		LightScore:  res.Breakdown.Light.Score,
		CrowdScore:  res.Breakdown.Crowd.Score,
		MusicScore:  res.Breakdown.Music.Score,
		RangeSource: res.RangeSource,
		CreatedAt:   res.ComputedAt,
	}
	if err := s.store.SaveScoreEvent(ctx, event); err != nil {
		log.Printf("⚠️ [%s] Could not record score event: %v", res.VenueID, err)
	}
}
