package ingest

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"venue-pulse/internal/config"
	"venue-pulse/internal/genre"
	"venue-pulse/internal/models"
	"venue-pulse/internal/pulse"
	"venue-pulse/internal/store"
	"venue-pulse/internal/timeslot"
)

var (
	readings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_ingest_readings_total",
			Help: "Total sensor readings processed",
		},
		[]string{"status"},
	)
	rollups = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_ingest_rollups_total",
			Help: "Hourly roll-up rows written",
		},
	)
	duration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pulse_ingest_process_duration_seconds",
			Help:    "Processing time per reading",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(readings, rollups, duration)
}

// trackGenres caches the genre lookup for one track so a song playing
// for four minutes costs one iTunes call, not hundreds.
type trackGenres struct {
	key    string
	genres []string
}

// Worker turns raw readings into stored telemetry and live hourly
// roll-ups.
type Worker struct {
	cfg     *config.Config
	store   store.Store
	matcher genre.Matcher
	scorer  *pulse.Scorer
	clock   timeslot.Clock

	mu      sync.Mutex
	zones   map[string]string
	buckets map[string]*bucket
	tracks  map[string]trackGenres
}

func New(cfg *config.Config, st store.Store, matcher genre.Matcher) *Worker {
	engine := pulse.NewEngine(matcher, pulse.ParamsFromConfig(cfg))
	return &Worker{
		cfg:     cfg,
		store:   st,
		matcher: matcher,
		scorer:  pulse.NewScorer(st, engine),
		clock:   timeslot.RealClock{},
		zones:   make(map[string]string),
		buckets: make(map[string]*bucket),
		tracks:  make(map[string]trackGenres),
	}
}

// Run consumes readings until the context ends.
func (w *Worker) Run(ctx context.Context, in <-chan *models.SensorReading) {
	log.Println("Ingest worker started...")
	for {
		select {
		case <-ctx.Done():
			log.Println("Ingest worker stopping...")
			return
		case r := <-in:
			if err := w.Process(ctx, r); err != nil {
				log.Printf("❌ FAILED reading from %s: %v", r.VenueID, err)
				readings.WithLabelValues("failure").Inc()
			} else {
				readings.WithLabelValues("success").Inc()
			}
		}
	}
}

// Process handles a single reading end to end.
func (w *Worker) Process(ctx context.Context, r *models.SensorReading) error {
	timer := prometheus.NewTimer(duration)
	defer timer.ObserveDuration()

	// 1. Validate
	if r.VenueID == "" {
		readings.WithLabelValues("invalid").Inc()
		return fmt.Errorf("reading without venue id")
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = w.clock.Now().UTC()
	}

	// 2. Register unknown venues on first contact
	tz := w.timezone(ctx, r.VenueID)

	// 3. Persist the raw reading
	if err := w.store.SaveReading(ctx, r); err != nil {
		return fmt.Errorf("save reading: %w", err)
	}

	// 4. Track the occupancy high-water mark
	if r.HasOccupancy() {
		if err := w.store.RaisePeakOccupancy(ctx, r.VenueID, r.Occupancy.Current); err != nil {
			log.Printf("⚠️ [%s] Could not update peak occupancy: %v", r.VenueID, err)
		}
	}

	// 5. Roll the reading into its venue-local hour
	local := timeslot.InZone(r.Timestamp, tz)
	row := w.roll(r, local, w.genresFor(r))
	if err := w.store.UpsertHourly(ctx, row); err != nil {
		return fmt.Errorf("upsert hourly: %w", err)
	}
	rollups.Inc()

	// 6. Score the moment and keep it for trends
	res, err := w.scorer.ScoreVenue(ctx, r.VenueID, r, r.Timestamp)
	if err != nil {
		log.Printf("⚠️ [%s] Score computation failed: %v", r.VenueID, err)
	} else {
		w.scorer.RecordEvent(ctx, res)
	}

	return nil
}

// timezone resolves and caches the venue's zone name. Venues seen for
// the first time get a stub row so the dashboard can pick them up.
func (w *Worker) timezone(ctx context.Context, venueID string) string {
	w.mu.Lock()
	tz, ok := w.zones[venueID]
	w.mu.Unlock()
	if ok {
		return tz
	}

	venue, err := w.store.GetVenue(ctx, venueID)
	if err != nil {
		log.Printf("⚠️ [%s] Venue lookup failed: %v", venueID, err)
		return ""
	}
	if venue == nil {
		venue = &models.Venue{ID: venueID, Name: venueID, Timezone: "UTC"}
		if err := w.store.SaveVenue(ctx, venue); err != nil {
			log.Printf("⚠️ [%s] Could not register venue: %v", venueID, err)
			return ""
		}
		log.Printf("🆕 Registered venue '%s' from its first reading", venueID)
	}

	w.mu.Lock()
	w.zones[venueID] = venue.Timezone
	w.mu.Unlock()
	return venue.Timezone
}

// roll adds the reading to the venue's open hour, starting a fresh
// bucket when the local hour moves on. The closed hour needs no final
// write: its last reading already upserted the complete row.
func (w *Worker) roll(r *models.SensorReading, local time.Time, genres []string) *models.HourlyPerformance {
	date := local.Format("2006-01-02")
	hour := local.Hour()

	w.mu.Lock()
	defer w.mu.Unlock()

	b := w.buckets[r.VenueID]
	if b == nil || b.date != date || b.hour != hour {
		if b != nil {
			log.Printf("📊 [%s] Hour %s %02d:00 closed with %d samples", r.VenueID, b.date, b.hour, b.samples)
		}
		b = newBucket(date, hour)
		w.buckets[r.VenueID] = b
	}
	b.add(r, genres)
	return b.row(r.VenueID)
}

// genresFor detects what is playing, falling back to an iTunes lookup
// when the track name alone gives nothing away.
func (w *Worker) genresFor(r *models.SensorReading) []string {
	if !r.HasMusic() {
		return nil
	}
	if hits := w.matcher.Detect(r.Song, r.Artist); len(hits) > 0 {
		return hits
	}
	if !w.cfg.Ingest.LookupGenres {
		return nil
	}

	key := r.Song + "|" + r.Artist
	w.mu.Lock()
	cached, ok := w.tracks[r.VenueID]
	w.mu.Unlock()
	if ok && cached.key == key {
		return cached.genres
	}

	var hits []string
	name, err := genre.LookupITunes(r.Song, r.Artist)
	if err != nil {
		log.Printf("⚠️ [%s] iTunes lookup failed for %q: %v", r.VenueID, r.Song, err)
	} else if name != "" {
		hits = w.matcher.Detect(name, "")
	}

	// Cache misses too, so a track iTunes does not know costs one call
	w.mu.Lock()
	w.tracks[r.VenueID] = trackGenres{key: key, genres: hits}
	w.mu.Unlock()
	return hits
}
