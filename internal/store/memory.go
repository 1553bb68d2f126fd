package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"venue-pulse/internal/models"
)

// MemoryStore is a map-backed Store. It backs unit tests and the
// dry-run learner mode; nothing survives a restart.
type MemoryStore struct {
	mu sync.RWMutex

	readings   map[string][]models.SensorReading
	hourly     map[string]map[string]models.HourlyPerformance
	ranges     map[string]models.VenueOptimalRanges
	bestNights map[string]models.BestNightProfile
	settings   map[string]models.VenueSettings
	venues     map[string]models.Venue
	events     map[string][]models.ScoreEvent
	runs       map[string][]models.LearningRun
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		readings:   make(map[string][]models.SensorReading),
		hourly:     make(map[string]map[string]models.HourlyPerformance),
		ranges:     make(map[string]models.VenueOptimalRanges),
		bestNights: make(map[string]models.BestNightProfile),
		settings:   make(map[string]models.VenueSettings),
		venues:     make(map[string]models.Venue),
		events:     make(map[string][]models.ScoreEvent),
		runs:       make(map[string][]models.LearningRun),
	}
}

func slotKey(venueID, slot string) string { return venueID + "|" + slot }

func hourKey(date string, hour int) string { return fmt.Sprintf("%s|%02d", date, hour) }

// --- TelemetryStore ---

func (s *MemoryStore) SaveReading(_ context.Context, r *models.SensorReading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings[r.VenueID] = append(s.readings[r.VenueID], *r)
	return nil
}

func (s *MemoryStore) LatestReading(_ context.Context, venueID string) (*models.SensorReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.readings[venueID]
	if len(list) == 0 {
		return nil, nil
	}
	latest := list[0]
	for _, r := range list[1:] {
		if r.Timestamp.After(latest.Timestamp) {
			latest = r
		}
	}
	return &latest, nil
}

func (s *MemoryStore) ReadingsSince(_ context.Context, venueID string, since time.Time) ([]models.SensorReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.SensorReading
	for _, r := range s.readings[venueID] {
		if !r.Timestamp.Before(since) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// --- PerformanceStore ---

func (s *MemoryStore) UpsertHourly(_ context.Context, row *models.HourlyPerformance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byHour, ok := s.hourly[row.VenueID]
	if !ok {
		byHour = make(map[string]models.HourlyPerformance)
		s.hourly[row.VenueID] = byHour
	}
	byHour[hourKey(row.Date, row.Hour)] = *row
	return nil
}

func (s *MemoryStore) HourlyHistory(_ context.Context, venueID string, days int) ([]models.HourlyPerformance, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.HourlyPerformance
	for _, row := range s.hourly[venueID] {
		if row.Date >= cutoff {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Hour < out[j].Hour
	})
	return out, nil
}

// --- RangesStore ---

func (s *MemoryStore) GetRanges(_ context.Context, venueID string) (*models.VenueOptimalRanges, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.ranges[venueID]; ok {
		out := r
		return &out, nil
	}
	return nil, nil
}

func (s *MemoryStore) ReplaceRanges(_ context.Context, ranges *models.VenueOptimalRanges) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ranges[ranges.VenueID] = *ranges
	return nil
}

func (s *MemoryStore) GetBestNight(_ context.Context, venueID, slot string) (*models.BestNightProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.bestNights[slotKey(venueID, slot)]; ok {
		out := p
		return &out, nil
	}
	return nil, nil
}

func (s *MemoryStore) ReplaceBestNight(_ context.Context, profile *models.BestNightProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bestNights[slotKey(profile.VenueID, profile.SlotKey)] = *profile
	return nil
}

func (s *MemoryStore) BestNights(_ context.Context, venueID string) ([]models.BestNightProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.BestNightProfile
	for _, p := range s.bestNights {
		if p.VenueID == venueID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotKey < out[j].SlotKey })
	return out, nil
}

// --- SettingsStore ---

func (s *MemoryStore) GetSettings(_ context.Context, venueID string) (*models.VenueSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.settings[venueID]; ok {
		out := v
		return &out, nil
	}
	return nil, nil
}

func (s *MemoryStore) SaveSettings(_ context.Context, settings *models.VenueSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[settings.VenueID] = *settings
	return nil
}

// --- VenueStore ---

func (s *MemoryStore) GetVenue(_ context.Context, id string) (*models.Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.venues[id]; ok {
		out := v
		return &out, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListVenues(_ context.Context) ([]models.Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Venue, 0, len(s.venues))
	for _, v := range s.venues {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) SaveVenue(_ context.Context, venue *models.Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.venues[venue.ID] = *venue
	return nil
}

func (s *MemoryStore) DeleteVenue(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.venues, id)
	return nil
}

func (s *MemoryStore) RaisePeakOccupancy(_ context.Context, id string, current int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.venues[id]; ok && current > v.PeakOccupancy {
		v.PeakOccupancy = current
		s.venues[id] = v
	}
	return nil
}

// --- EventStore ---

func (s *MemoryStore) SaveScoreEvent(_ context.Context, event *models.ScoreEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.VenueID] = append(s.events[event.VenueID], *event)
	return nil
}

func (s *MemoryStore) ScoresSince(_ context.Context, venueID string, since time.Time) ([]models.ScoreEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ScoreEvent
	for _, e := range s.events[venueID] {
		if !e.CreatedAt.Before(since) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- RunStore ---

func (s *MemoryStore) SaveRun(_ context.Context, run *models.LearningRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.VenueID] = append(s.runs[run.VenueID], *run)
	return nil
}

func (s *MemoryStore) RunsForVenue(_ context.Context, venueID string, limit int) ([]models.LearningRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := append([]models.LearningRun(nil), s.runs[venueID]...)
	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt.After(runs[j].StartedAt) })
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
