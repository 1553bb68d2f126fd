package models

import "time"

// ScoreEvent is one computed pulse score, retained for the stats and
// trend endpoints.
type ScoreEvent struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	VenueID string `gorm:"index;size:64" json:"venue_id"`

	Score   float64 `json:"score"`
	Status  string  `gorm:"size:16" json:"status"`
	SlotKey string  `gorm:"size:32" json:"slot_key"`

	SoundScore float64 `json:"sound_score"`
	LightScore float64 `json:"light_score"`
	CrowdScore float64 `json:"crowd_score"`
	MusicScore float64 `json:"music_score"`

	// RangeSource records which range provider won the selection chain
	// (best_night, learned, calibrated or default).
	RangeSource string `gorm:"size:16" json:"range_source"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
