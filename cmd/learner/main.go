package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"venue-pulse/internal/archive"
	"venue-pulse/internal/config"
	database "venue-pulse/internal/db"
	"venue-pulse/internal/learning"
	"venue-pulse/internal/store"
)

func main() {
	// 1. Parse Flags
	// We add flags to override config.yaml values
	venueID := flag.String("venue", "", "Learn one venue instead of all")
	all := flag.Bool("all", false, "Learn every registered venue (the default when --venue is empty)")
	dryRun := flag.Bool("dry-run", false, "Compute and audit without replacing live ranges")
	interval := flag.Int("interval", 0, "Re-run every N hours; 0 runs once and exits")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// 2. Load Config
	cfg := config.Load()

	// 3. Apply Flag Overrides
	hours := cfg.Learning.IntervalHours
	if *interval > 0 {
		hours = *interval
	}
	if *venueID != "" && *all {
		log.Fatal("❌ --venue and --all are mutually exclusive")
	}

	if *dryRun {
		log.Println("🧪 MODE: DRY RUN")
		log.Println("   - Ranges will NOT be replaced")
		log.Println("   - Audit rows are still written, flagged dry_run")
	} else {
		log.Println("🎓 Starting Pulse Learner (Live Mode)...")
	}

	// 4. Init Infrastructure
	db := database.New(cfg)

	// 5. Run Migrations (safe to run even in dry run)
	db.AutoMigrate()

	st := store.NewGormStore(db.DB)
	learner := learning.NewLearner(st, archive.New(cfg), learning.FromConfig(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Run once, then keep the interval if one is set
	cycle(ctx, learner, *venueID, *dryRun)

	if *interval == 0 {
		return
	}

	ticker := time.NewTicker(time.Duration(hours) * time.Hour)
	defer ticker.Stop()
	log.Printf("📅 Next cycle in %dh", hours)

	for {
		select {
		case <-ctx.Done():
			log.Println("Learner stopped")
			return
		case <-ticker.C:
			cycle(ctx, learner, *venueID, *dryRun)
			log.Printf("📅 Next cycle in %dh", hours)
		}
	}
}

func cycle(ctx context.Context, learner *learning.Learner, venueID string, dryRun bool) {
	if venueID != "" {
		if _, err := learner.RunCycle(ctx, venueID, dryRun); err != nil {
			log.Printf("❌ [%s] Learning cycle failed: %v", venueID, err)
		}
		return
	}
	if _, err := learner.RunAll(ctx, dryRun); err != nil {
		log.Printf("❌ Learning sweep failed: %v", err)
	}
}
