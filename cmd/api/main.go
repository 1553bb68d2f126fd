package main

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"venue-pulse/internal/api"
	"venue-pulse/internal/archive"
	"venue-pulse/internal/config"
	database "venue-pulse/internal/db"
	"venue-pulse/internal/genre"
	"venue-pulse/internal/learning"
	"venue-pulse/internal/pulse"
	"venue-pulse/internal/store"
	"venue-pulse/internal/timeslot"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Pulse API Server...")

	// 1. Setup Configuration
	cfg := config.Load()

	// 2. Initialize Infrastructure
	db := database.New(cfg)

	// 3. Run Database Migrations
	db.AutoMigrate()
	database.SeedVenues(db.DB)

	// 4. Persistence (raw telemetry optionally lives in ClickHouse)
	st := buildStore(cfg, db)

	// 5. Scoring rules: slot profile and genre vocabulary overrides
	if cfg.Engine.SlotsFile != "" {
		if err := timeslot.LoadProfiles(cfg.Engine.SlotsFile); err != nil {
			log.Fatalf("❌ Failed to load slot profiles: %v", err)
		}
	}
	matcher := genre.NewMatcher(cfg.Engine.Matcher, cfg.Engine.GenresFile)

	// 6. Engine and learner
	engine := pulse.NewEngine(matcher, pulse.ParamsFromConfig(cfg))
	scorer := pulse.NewScorer(st, engine)
	learner := learning.NewLearner(st, archive.New(cfg), learning.FromConfig(cfg))

	// 7. Setup Metrics
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Printf("📊 Metrics exposed at http://localhost%s/metrics", cfg.Server.MetricsPort)
		if err := http.ListenAndServe(cfg.Server.MetricsPort, nil); err != nil {
			log.Printf("⚠️ Metrics server error: %v", err)
		}
	}()

	// 8. Start Server
	srv := api.New(cfg, st, scorer, learner)

	log.Printf("🚀 API Server starting on %s", cfg.Server.Port)
	if err := srv.Start(cfg.Server.Port); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}

func buildStore(cfg *config.Config, db *database.Client) store.Store {
	base := store.NewGormStore(db.DB)
	if cfg.Telemetry.Backend != "clickhouse" {
		return base
	}

	ch, err := store.NewClickHouseStore(
		cfg.Telemetry.ClickHouseAddr,
		cfg.Telemetry.ClickHouseDatabase,
		cfg.Telemetry.ClickHouseUser,
		cfg.Telemetry.ClickHousePassword,
	)
	if err != nil {
		log.Fatalf("❌ ClickHouse connection failed: %v", err)
	}
	log.Printf("✅ Telemetry Backend: ClickHouse at %s", cfg.Telemetry.ClickHouseAddr)
	return store.WithTelemetry(base, ch)
}
