package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"venue-pulse/internal/config"
	"venue-pulse/internal/genre"
	"venue-pulse/internal/learning"
	"venue-pulse/internal/models"
	"venue-pulse/internal/pulse"
	"venue-pulse/internal/store"
)

func newTestServer() (*Server, *store.MemoryStore) {
	cfg := &config.Config{}
	cfg.Server.Mode = "release"

	mem := store.NewMemoryStore()
	engine := pulse.NewEngine(genre.NewMatcher("keyword", ""), pulse.DefaultParams())
	scorer := pulse.NewScorer(mem, engine)
	learner := learning.NewLearner(mem, nil, learning.DefaultParams())

	return New(cfg, mem, scorer, learner), mem
}

func doJSON(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("Invalid JSON response: %v\n%s", err, w.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer()

	w := doJSON(s, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["status"] != "ok" {
		t.Errorf("Health mismatch! got %v", body)
	}
}

func TestUnknownVenueIs404(t *testing.T) {
	s, _ := newTestServer()

	paths := []string{
		"/api/v1/venues/ghost",
		"/api/v1/venues/ghost/score",
		"/api/v1/venues/ghost/dwell",
		"/api/v1/venues/ghost/stats",
		"/api/v1/venues/ghost/ranges",
		"/api/v1/venues/ghost/calibration",
	}
	for _, path := range paths {
		if w := doJSON(s, http.MethodGet, path, nil); w.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, w.Code)
		}
	}
}

func seedTestVenue(t *testing.T, mem *store.MemoryStore) {
	t.Helper()
	err := mem.SaveVenue(context.Background(), &models.Venue{
		ID: "blue-door", Name: "Blue Door", Capacity: 100, Timezone: "UTC",
	})
	if err != nil {
		t.Fatalf("seed venue: %v", err)
	}
}

func TestCreateAndFetchVenue(t *testing.T) {
	s, _ := newTestServer()

	w := doJSON(s, http.MethodPost, "/api/v1/venues", gin.H{
		"id": "casa-ritmo", "name": "Casa Ritmo", "city": "Barcelona",
		"capacity": 120, "timezone": "Europe/Madrid",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(s, http.MethodGet, "/api/v1/venues/casa-ritmo", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["name"] != "Casa Ritmo" || body["timezone"] != "Europe/Madrid" {
		t.Errorf("Venue mismatch! got %v", body)
	}

	// Same ID again is a conflict
	w = doJSON(s, http.MethodPost, "/api/v1/venues", gin.H{"id": "casa-ritmo", "name": "Imposter"})
	if w.Code != http.StatusConflict {
		t.Errorf("Duplicate create = %d, want 409", w.Code)
	}
}

func TestCreateVenueValidation(t *testing.T) {
	s, _ := newTestServer()

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing name", gin.H{"id": "x-bar"}},
		{"bad id charset", gin.H{"id": "Blue Door!", "name": "Blue Door"}},
		{"bad timezone", gin.H{"id": "x-bar", "name": "X Bar", "timezone": "Mars/Olympus"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := doJSON(s, http.MethodPost, "/api/v1/venues", tc.body); w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", w.Code)
			}
		})
	}
}

func TestListVenues(t *testing.T) {
	s, mem := newTestServer()
	seedTestVenue(t, mem)

	w := doJSON(s, http.MethodGet, "/api/v1/venues", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if meta := body["meta"].(map[string]any); meta["count"].(float64) != 1 {
		t.Errorf("Count mismatch! got %v", meta["count"])
	}
}

func TestGetScoreRecordsEvent(t *testing.T) {
	s, mem := newTestServer()
	seedTestVenue(t, mem)

	reading := &models.SensorReading{
		VenueID:   "blue-door",
		Timestamp: time.Now().UTC(),
		Decibels:  72,
		Lux:       150,
	}
	if err := mem.SaveReading(context.Background(), reading); err != nil {
		t.Fatalf("seed reading: %v", err)
	}

	w := doJSON(s, http.MethodGet, "/api/v1/venues/blue-door/score", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["status"] == "no_data" {
		t.Errorf("Expected a scored result, got no_data")
	}

	events, err := mem.ScoresSince(context.Background(), "blue-door", time.Now().UTC().Add(-time.Minute))
	if err != nil || len(events) != 1 {
		t.Fatalf("Expected 1 recorded event, got %d (%v)", len(events), err)
	}
}

func TestGetScoreNoTelemetry(t *testing.T) {
	s, mem := newTestServer()
	seedTestVenue(t, mem)

	w := doJSON(s, http.MethodGet, "/api/v1/venues/blue-door/score", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["status"] != "no_data" {
		t.Errorf("Status mismatch! got %v, want no_data", body["status"])
	}

	// no_data moments are not worth trending
	events, _ := mem.ScoresSince(context.Background(), "blue-door", time.Now().UTC().Add(-time.Minute))
	if len(events) != 0 {
		t.Errorf("Expected no recorded events, got %d", len(events))
	}
}

func TestGetScoreBadTimestamp(t *testing.T) {
	s, mem := newTestServer()
	seedTestVenue(t, mem)

	w := doJSON(s, http.MethodGet, "/api/v1/venues/blue-door/score?at=yesterdayish", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestScorePostedReading(t *testing.T) {
	s, mem := newTestServer()
	seedTestVenue(t, mem)

	w := doJSON(s, http.MethodPost, "/api/v1/venues/blue-door/score", gin.H{
		"decibels": 74.0,
		"lux":      160.0,
		"occupancy": gin.H{
			"current": 60, "entries": 200, "exits": 140,
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["venue_id"] != "blue-door" {
		t.Errorf("Venue mismatch! got %v", body["venue_id"])
	}
	if score := body["score"].(float64); score <= 0 || score > 100 {
		t.Errorf("Score out of range: %v", score)
	}

	// What-if scoring must leave no trace
	events, _ := mem.ScoresSince(context.Background(), "blue-door", time.Now().UTC().Add(-time.Minute))
	if len(events) != 0 {
		t.Errorf("Expected no recorded events, got %d", len(events))
	}
}

func TestDwellEndpoint(t *testing.T) {
	s, mem := newTestServer()
	seedTestVenue(t, mem)

	base := time.Now().UTC().Add(-2 * time.Hour)
	for i := 0; i < 3; i++ {
		r := &models.SensorReading{
			VenueID:   "blue-door",
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Occupancy: &models.OccupancySnapshot{Current: 30, Entries: 100 + i*10},
		}
		if err := mem.SaveReading(context.Background(), r); err != nil {
			t.Fatalf("seed reading: %v", err)
		}
	}

	w := doJSON(s, http.MethodGet, "/api/v1/venues/blue-door/dwell?hours=6", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	est := body["estimate"].(map[string]any)
	if est["reliable"] != true {
		t.Fatalf("Expected a reliable estimate, got %v", body)
	}
	// 20 entries over 2h, 30 inside on average: 3h dwell
	if est["minutes"].(float64) != 180 {
		t.Errorf("Minutes mismatch! got %v, want 180", est["minutes"])
	}
}

func TestStatsEndpoint(t *testing.T) {
	s, mem := newTestServer()
	seedTestVenue(t, mem)

	if err := mem.SaveReading(context.Background(), &models.SensorReading{
		VenueID: "blue-door", Timestamp: time.Now().UTC(), Decibels: 70, Lux: 120,
	}); err != nil {
		t.Fatalf("seed reading: %v", err)
	}
	if err := mem.SaveScoreEvent(context.Background(), &models.ScoreEvent{
		VenueID: "blue-door", Score: 80, Status: "optimal", SlotKey: "friday_peak",
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}); err != nil {
		t.Fatalf("seed event: %v", err)
	}

	w := doJSON(s, http.MethodGet, "/api/v1/venues/blue-door/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)

	if _, ok := body["score"].(map[string]any); !ok {
		t.Fatalf("Missing score block: %v", body)
	}
	trend := body["trend"].(map[string]any)
	if trend["count"].(float64) != 1 || trend["average"].(float64) != 80 {
		t.Errorf("Trend mismatch! got %v", trend)
	}

	// Stats polling must not multiply events
	events, _ := mem.ScoresSince(context.Background(), "blue-door", time.Now().UTC().Add(-2*time.Hour))
	if len(events) != 1 {
		t.Errorf("Expected the 1 seeded event, got %d", len(events))
	}
}

func TestRangesEndpoint(t *testing.T) {
	s, mem := newTestServer()
	seedTestVenue(t, mem)

	w := doJSON(s, http.MethodGet, "/api/v1/venues/blue-door/ranges", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	active := body["active"].(map[string]any)
	if active["source"] != "default" {
		t.Errorf("Fresh venue should resolve to defaults, got %v", active["source"])
	}
	if active["slot"] == "" {
		t.Errorf("Missing slot in %v", active)
	}
}

func TestCalibrationRoundTrip(t *testing.T) {
	s, mem := newTestServer()
	seedTestVenue(t, mem)

	// Empty until set
	w := doJSON(s, http.MethodGet, "/api/v1/venues/blue-door/calibration", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	// Set sound only
	w = doJSON(s, http.MethodPut, "/api/v1/venues/blue-door/calibration", gin.H{
		"sound_min": 65.0, "sound_max": 80.0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	settings, err := mem.GetSettings(context.Background(), "blue-door")
	if err != nil || settings == nil {
		t.Fatalf("Expected stored settings, got %v (%v)", settings, err)
	}
	if !settings.SoundCalibrated() || settings.LightCalibrated() {
		t.Errorf("Calibration mismatch! got %+v", settings)
	}

	// A second PUT without sound clears it
	w = doJSON(s, http.MethodPut, "/api/v1/venues/blue-door/calibration", gin.H{
		"target_occupancy_pct": 70.0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	settings, _ = mem.GetSettings(context.Background(), "blue-door")
	if settings.SoundCalibrated() {
		t.Errorf("Expected sound calibration cleared, got %+v", settings)
	}
	if settings.TargetOccupancyPct == nil || *settings.TargetOccupancyPct != 70 {
		t.Errorf("Target mismatch! got %+v", settings)
	}
}

func TestCalibrationValidation(t *testing.T) {
	s, mem := newTestServer()
	seedTestVenue(t, mem)

	cases := []struct {
		name string
		body gin.H
	}{
		{"half a pair", gin.H{"sound_min": 65.0}},
		{"inverted range", gin.H{"sound_min": 80.0, "sound_max": 65.0}},
		{"target out of range", gin.H{"target_occupancy_pct": 250.0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(s, http.MethodPut, "/api/v1/venues/blue-door/calibration", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", w.Code)
			}
		})
	}
}

func TestTriggerLearningThinHistory(t *testing.T) {
	s, mem := newTestServer()
	seedTestVenue(t, mem)

	w := doJSON(s, http.MethodPost, "/api/v1/venues/blue-door/learning/run", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["status"] != models.RunSkipped {
		t.Errorf("Status mismatch! got %v, want %s", body["status"], models.RunSkipped)
	}

	// The skipped cycle still left an audit row
	w = doJSON(s, http.MethodGet, "/api/v1/venues/blue-door/learning/runs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	runsBody := decodeBody(t, w)
	if meta := runsBody["meta"].(map[string]any); meta["count"].(float64) != 1 {
		t.Errorf("Expected 1 audit row, got %v", meta["count"])
	}
}

func TestTriggerLearningDryRun(t *testing.T) {
	s, mem := newTestServer()
	seedTestVenue(t, mem)
	seedTrainingHistory(t, mem, "blue-door")

	w := doJSON(s, http.MethodPost, "/api/v1/venues/blue-door/learning/run?dry_run=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["status"] != models.RunCompleted || body["dry_run"] != true {
		t.Errorf("Run mismatch! got %v", body)
	}

	// Dry means dry
	ranges, _ := mem.GetRanges(context.Background(), "blue-door")
	if ranges != nil {
		t.Errorf("Dry run must not write ranges, got %+v", ranges)
	}
}

func seedTrainingHistory(t *testing.T, mem *store.MemoryStore, venueID string) {
	t.Helper()
	for i := 0; i < 40; i++ {
		day := time.Now().UTC().AddDate(0, 0, -(1 + i/4))
		row := &models.HourlyPerformance{
			VenueID:      venueID,
			Date:         day.Format("2006-01-02"),
			Hour:         20 + i%4,
			AvgDecibels:  70 + float64(i%3),
			AvgLux:       120,
			AvgOccupancy: 55,
			DwellMinutes: 90 + float64(i),
			SampleCount:  12,
		}
		if err := mem.UpsertHourly(context.Background(), row); err != nil {
			t.Fatalf("seed history: %v", err)
		}
	}
}
