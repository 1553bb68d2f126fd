package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"venue-pulse/internal/config"
	database "venue-pulse/internal/db"
	"venue-pulse/internal/genre"
	"venue-pulse/internal/ingest"
	"venue-pulse/internal/models"
	"venue-pulse/internal/store"
	"venue-pulse/internal/timeslot"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Pulse Ingestion Worker (MQTT + Database)...")

	// 1. Setup Configuration
	cfg := config.Load()

	// 2. Initialize Infrastructure
	db := database.New(cfg)

	// 3. Run Database Migrations
	db.AutoMigrate()

	// 4. Persistence (raw telemetry optionally lives in ClickHouse)
	st := buildStore(cfg, db)

	// 5. Scoring rules, shared with the API server so live scores and
	// roll-ups agree on slots and genres
	if cfg.Engine.SlotsFile != "" {
		if err := timeslot.LoadProfiles(cfg.Engine.SlotsFile); err != nil {
			log.Fatalf("❌ Failed to load slot profiles: %v", err)
		}
	}
	matcher := genre.NewMatcher(cfg.Engine.Matcher, cfg.Engine.GenresFile)

	// 6. Setup Metrics
	ingest.RegisterMetrics()
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Printf("📊 Metrics exposed at http://localhost%s/metrics", cfg.Ingest.MetricsPort)
		log.Fatal(http.ListenAndServe(cfg.Ingest.MetricsPort, nil))
	}()

	// 7. MQTT in, worker out
	readings := make(chan *models.SensorReading, 256)

	consumer, err := ingest.NewConsumer(ingest.ClientConfig{
		Broker:   cfg.MQTT.Broker,
		ClientID: cfg.MQTT.ClientID,
		Username: cfg.MQTT.Username,
		Password: cfg.MQTT.Password,
		Topic:    cfg.MQTT.Topic,
	}, readings)
	if err != nil {
		log.Fatalf("❌ MQTT connection failed: %v", err)
	}
	defer consumer.Close()

	if err := consumer.Subscribe(); err != nil {
		log.Fatalf("❌ MQTT subscribe failed: %v", err)
	}

	// 8. Run until signalled
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := ingest.New(cfg, st, matcher)
	worker.Run(ctx, readings)

	log.Println("Ingester stopped")
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
