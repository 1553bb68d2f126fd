package models

import "time"

// Learning run outcomes.
const (
	RunCompleted = "completed"
	RunSkipped   = "skipped"
	RunFailed    = "failed"
)

// LearningRun is the audit record of one learner cycle for one venue.
type LearningRun struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	RunID   string `gorm:"uniqueIndex;size:36" json:"run_id"`
	VenueID string `gorm:"index;size:64" json:"venue_id"`

	Status string `gorm:"size:16" json:"status"`
	// Note explains skips and failures ("insufficient data: 12 rows").
	Note string `json:"note,omitempty"`

	DataPoints  int     `json:"data_points"`
	HistoryDays int     `json:"history_days"`
	Confidence  float64 `json:"confidence"`
	DryRun      bool    `json:"dry_run"`

	// SnapshotKey is where the archive provider stored the cycle's
	// input/output snapshot, empty when archiving is off.
	SnapshotKey string `json:"snapshot_key,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
