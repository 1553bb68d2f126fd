// Package store is the persistence boundary. The engine and learner
// only see these contracts; which backend sits behind them is a config
// decision.
//
// Lookup methods return (nil, nil) when the row simply does not exist
// yet. Missing state is a normal condition here, not an error.
package store

import (
	"context"
	"time"

	"venue-pulse/internal/models"
)

// TelemetryStore holds raw sensor readings.
type TelemetryStore interface {
	SaveReading(ctx context.Context, r *models.SensorReading) error
	LatestReading(ctx context.Context, venueID string) (*models.SensorReading, error)
	ReadingsSince(ctx context.Context, venueID string, since time.Time) ([]models.SensorReading, error)
}

// PerformanceStore holds the hourly roll-ups the learner trains on.
type PerformanceStore interface {
	UpsertHourly(ctx context.Context, row *models.HourlyPerformance) error
	HourlyHistory(ctx context.Context, venueID string, days int) ([]models.HourlyPerformance, error)
}

// RangesStore holds learner output. Replace methods swap the whole
// record; concurrent readers must never see a half-written one.
type RangesStore interface {
	GetRanges(ctx context.Context, venueID string) (*models.VenueOptimalRanges, error)
	ReplaceRanges(ctx context.Context, ranges *models.VenueOptimalRanges) error

	GetBestNight(ctx context.Context, venueID, slotKey string) (*models.BestNightProfile, error)
	ReplaceBestNight(ctx context.Context, profile *models.BestNightProfile) error
	BestNights(ctx context.Context, venueID string) ([]models.BestNightProfile, error)
}

// SettingsStore holds operator calibration.
type SettingsStore interface {
	GetSettings(ctx context.Context, venueID string) (*models.VenueSettings, error)
	SaveSettings(ctx context.Context, settings *models.VenueSettings) error
}

// VenueStore holds the venues themselves.
type VenueStore interface {
	GetVenue(ctx context.Context, id string) (*models.Venue, error)
	ListVenues(ctx context.Context) ([]models.Venue, error)
	SaveVenue(ctx context.Context, venue *models.Venue) error
	DeleteVenue(ctx context.Context, id string) error

	// RaisePeakOccupancy bumps the stored high-water mark if current
	// exceeds it.
	RaisePeakOccupancy(ctx context.Context, id string, current int) error
}

// EventStore holds computed scores for trends and stats.
type EventStore interface {
	SaveScoreEvent(ctx context.Context, event *models.ScoreEvent) error
	ScoresSince(ctx context.Context, venueID string, since time.Time) ([]models.ScoreEvent, error)
}

// RunStore holds the learner's audit trail.
type RunStore interface {
	SaveRun(ctx context.Context, run *models.LearningRun) error
	RunsForVenue(ctx context.Context, venueID string, limit int) ([]models.LearningRun, error)
}

// Store is the full persistence surface the API server works against.
type Store interface {
	TelemetryStore
	PerformanceStore
	RangesStore
	SettingsStore
	VenueStore
	EventStore
	RunStore
}

// WithTelemetry serves the telemetry methods from t and everything else
// from st. This is how raw readings go to ClickHouse while the learned
// state stays in the main database.
func WithTelemetry(st Store, t TelemetryStore) Store {
	return &telemetrySplit{Store: st, telemetry: t}
}

type telemetrySplit struct {
	Store
	telemetry TelemetryStore
}

func (s *telemetrySplit) SaveReading(ctx context.Context, r *models.SensorReading) error {
	return s.telemetry.SaveReading(ctx, r)
}

func (s *telemetrySplit) LatestReading(ctx context.Context, venueID string) (*models.SensorReading, error) {
	return s.telemetry.LatestReading(ctx, venueID)
}

func (s *telemetrySplit) ReadingsSince(ctx context.Context, venueID string, since time.Time) ([]models.SensorReading, error) {
	return s.telemetry.ReadingsSince(ctx, venueID, since)
}
