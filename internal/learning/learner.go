package learning

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"venue-pulse/internal/archive"
	"venue-pulse/internal/models"
	"venue-pulse/internal/store"
)

// Learner owns the periodic recompute cycle. Each cycle is a full
// rebuild from history; nothing is patched incrementally.
type Learner struct {
	store   store.Store
	archive *archive.Archive
	params  Params
}

// NewLearner wires a learner. arch may be nil when snapshots are
// disabled.
func NewLearner(st store.Store, arch *archive.Archive, params Params) *Learner {
	return &Learner{store: st, archive: arch, params: params}
}

// snapshot is the replayable record of one run: the inputs it saw and
// the outputs it produced.
type snapshot struct {
	Run        *models.LearningRun        `json:"run"`
	Ranges     *models.VenueOptimalRanges `json:"ranges"`
	BestNights []models.BestNightProfile  `json:"best_nights"`
	Rows       []models.HourlyPerformance `json:"rows"`
}

// RunCycle recomputes one venue's ranges, weights and best-night
// profiles. A broken history fetch degrades the run to the baseline
// confidence instead of returning an error; only write failures
// propagate.
func (l *Learner) RunCycle(ctx context.Context, venueID string, dryRun bool) (*models.LearningRun, error) {
	run := &models.LearningRun{
		RunID:     uuid.NewString(),
		VenueID:   venueID,
		DryRun:    dryRun,
		StartedAt: time.Now().UTC(),
	}
	log.Printf("🎓 [%s] Learning cycle %s starting (dry_run=%v)", venueID, run.RunID, dryRun)

	rows, err := l.store.HourlyHistory(ctx, venueID, l.params.HistoryDays)
	if err != nil {
		log.Printf("⚠️ [%s] History fetch failed, falling back to baseline confidence: %v", venueID, err)
		run.Status = models.RunFailed
		run.Note = "history fetch: " + err.Error()
		run.Confidence = l.params.ErrorBaseline
		run.FinishedAt = time.Now().UTC()
		l.saveRun(ctx, run)
		return run, nil
	}

	run.DataPoints = len(usableRows(rows))
	run.HistoryDays = uniqueDays(rows)
	run.Confidence = DataConfidence(run.DataPoints, run.HistoryDays, l.params)

	ranges := LearnRanges(venueID, rows, l.params)
	if ranges == nil {
		run.Status = models.RunSkipped
		run.Note = fmt.Sprintf("need %d usable hours, have %d", l.params.MinPoints, run.DataPoints)
		run.FinishedAt = time.Now().UTC()
		log.Printf("📊 [%s] Skipping: %s", venueID, run.Note)
		l.saveRun(ctx, run)
		return run, nil
	}
	ranges.LastRunID = run.RunID
	ranges.Confidence = run.Confidence

	bestNights := BuildBestNights(venueID, rows, l.params)

	if !dryRun {
		if err := l.store.ReplaceRanges(ctx, ranges); err != nil {
			return run, fmt.Errorf("replace ranges: %w", err)
		}
		for i := range bestNights {
			if err := l.store.ReplaceBestNight(ctx, &bestNights[i]); err != nil {
				return run, fmt.Errorf("replace best night %s: %w", bestNights[i].SlotKey, err)
			}
		}
	}

	if l.archive != nil {
		key, err := l.archive.SaveSnapshot(venueID, run.RunID, snapshot{
			Run:        run,
			Ranges:     ranges,
			BestNights: bestNights,
			Rows:       rows,
		})
		if err != nil {
			log.Printf("⚠️ [%s] Snapshot upload failed: %v", venueID, err)
		} else {
			run.SnapshotKey = key
		}
	}

	run.Status = models.RunCompleted
	run.FinishedAt = time.Now().UTC()
	l.saveRun(ctx, run)

	log.Printf("✅ [%s] Learned ranges from %d hours across %d days (confidence %.2f, %d best nights)",
		venueID, run.DataPoints, run.HistoryDays, run.Confidence, len(bestNights))
	return run, nil
}

// RunAll cycles every known venue. A venue that fails does not stop
// the sweep.
func (l *Learner) RunAll(ctx context.Context, dryRun bool) ([]*models.LearningRun, error) {
	venues, err := l.store.ListVenues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}

	runs := make([]*models.LearningRun, 0, len(venues))
	for _, v := range venues {
		run, err := l.RunCycle(ctx, v.ID, dryRun)
		if err != nil {
			log.Printf("❌ [%s] Learning cycle failed: %v", v.ID, err)
			continue
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// The audit row is recorded even for dry runs; the DryRun flag marks
// them in the trail.
func (l *Learner) saveRun(ctx context.Context, run *models.LearningRun) {
	if err := l.store.SaveRun(ctx, run); err != nil {
		log.Printf("⚠️ [%s] Could not record run %s: %v", run.VenueID, run.RunID, err)
	}
}

func uniqueDays(rows []models.HourlyPerformance) int {
	days := make(map[string]struct{})
	for _, r := range rows {
		if r.DwellMinutes > 0 {
			days[r.Date] = struct{}{}
		}
	}
	return len(days)
}
