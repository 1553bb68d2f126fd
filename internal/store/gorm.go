package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"venue-pulse/internal/models"
)

// GormStore implements the full Store surface on a relational database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func noRows(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// --- TelemetryStore ---

func (s *GormStore) SaveReading(ctx context.Context, r *models.SensorReading) error {
	return s.db.WithContext(ctx).Create(models.NewReadingRecord(r)).Error
}

func (s *GormStore) LatestReading(ctx context.Context, venueID string) (*models.SensorReading, error) {
	var rec models.ReadingRecord
	err := s.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("timestamp DESC").
		First(&rec).Error
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.Reading(), nil
}

func (s *GormStore) ReadingsSince(ctx context.Context, venueID string, since time.Time) ([]models.SensorReading, error) {
	var recs []models.ReadingRecord
	err := s.db.WithContext(ctx).
		Where("venue_id = ? AND timestamp >= ?", venueID, since).
		Order("timestamp ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.SensorReading, 0, len(recs))
	for i := range recs {
		out = append(out, *recs[i].Reading())
	}
	return out, nil
}

// --- PerformanceStore ---

func (s *GormStore) UpsertHourly(ctx context.Context, row *models.HourlyPerformance) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "venue_id"}, {Name: "date"}, {Name: "hour"}},
		UpdateAll: true,
	}).Create(row).Error
}

func (s *GormStore) HourlyHistory(ctx context.Context, venueID string, days int) ([]models.HourlyPerformance, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")

	var rows []models.HourlyPerformance
	err := s.db.WithContext(ctx).
		Where("venue_id = ? AND date >= ?", venueID, cutoff).
		Order("date ASC, hour ASC").
		Find(&rows).Error
	return rows, err
}

// --- RangesStore ---

func (s *GormStore) GetRanges(ctx context.Context, venueID string) (*models.VenueOptimalRanges, error) {
	var ranges models.VenueOptimalRanges
	err := s.db.WithContext(ctx).Where("venue_id = ?", venueID).First(&ranges).Error
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ranges, nil
}

func (s *GormStore) ReplaceRanges(ctx context.Context, ranges *models.VenueOptimalRanges) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "venue_id"}},
		UpdateAll: true,
	}).Create(ranges).Error
}

func (s *GormStore) GetBestNight(ctx context.Context, venueID, slotKey string) (*models.BestNightProfile, error) {
	var profile models.BestNightProfile
	err := s.db.WithContext(ctx).
		Where("venue_id = ? AND slot_key = ?", venueID, slotKey).
		First(&profile).Error
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *GormStore) ReplaceBestNight(ctx context.Context, profile *models.BestNightProfile) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "venue_id"}, {Name: "slot_key"}},
		UpdateAll: true,
	}).Create(profile).Error
}

func (s *GormStore) BestNights(ctx context.Context, venueID string) ([]models.BestNightProfile, error) {
	var profiles []models.BestNightProfile
	err := s.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("slot_key ASC").
		Find(&profiles).Error
	return profiles, err
}

// --- SettingsStore ---

func (s *GormStore) GetSettings(ctx context.Context, venueID string) (*models.VenueSettings, error) {
	var settings models.VenueSettings
	err := s.db.WithContext(ctx).Where("venue_id = ?", venueID).First(&settings).Error
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *GormStore) SaveSettings(ctx context.Context, settings *models.VenueSettings) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "venue_id"}},
		UpdateAll: true,
	}).Create(settings).Error
}

// --- VenueStore ---

func (s *GormStore) GetVenue(ctx context.Context, id string) (*models.Venue, error) {
	var venue models.Venue
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&venue).Error
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (s *GormStore) ListVenues(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	err := s.db.WithContext(ctx).Order("name ASC").Find(&venues).Error
	return venues, err
}

func (s *GormStore) SaveVenue(ctx context.Context, venue *models.Venue) error {
	return s.db.WithContext(ctx).Save(venue).Error
}

func (s *GormStore) DeleteVenue(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Venue{}, "id = ?", id).Error
}

func (s *GormStore) RaisePeakOccupancy(ctx context.Context, id string, current int) error {
	return s.db.WithContext(ctx).
		Model(&models.Venue{}).
		Where("id = ? AND peak_occupancy < ?", id, current).
		Update("peak_occupancy", current).Error
}

// --- EventStore ---

func (s *GormStore) SaveScoreEvent(ctx context.Context, event *models.ScoreEvent) error {
	return s.db.WithContext(ctx).Create(event).Error
}

func (s *GormStore) ScoresSince(ctx context.Context, venueID string, since time.Time) ([]models.ScoreEvent, error) {
	var events []models.ScoreEvent
	err := s.db.WithContext(ctx).
		Where("venue_id = ? AND created_at >= ?", venueID, since).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

// --- RunStore ---

func (s *GormStore) SaveRun(ctx context.Context, run *models.LearningRun) error {
	return s.db.WithContext(ctx).Create(run).Error
}

func (s *GormStore) RunsForVenue(ctx context.Context, venueID string, limit int) ([]models.LearningRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []models.LearningRun
	err := s.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
