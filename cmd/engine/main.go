package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"jobscout-engine/internal/cache"
	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/ingest"
	"jobscout-engine/internal/logging"
	"jobscout-engine/internal/scheduler"
	"jobscout-engine/internal/store"
)

func main() {
	// Engine data dir: use env if provided, else local folder.
	dataDir := os.Getenv("JOBSCOUT_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	cfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", cfgPath, err)
	}
	if err := config.OverlaySelectors(&cfg, filepath.Join(dataDir, "selectors.yml")); err != nil {
		log.Fatalf("selectors overlay failed: %v", err)
	}

	cfg, validation := config.NormalizeAndValidate(cfg)
	if !validation.OK() {
		log.Fatalf("config invalid:\n- %v", validation.Errors)
	}

	logger := logging.New(cfg.App.LogLevel)
	defer func() { _ = logger.Sync() }()

	for _, w := range validation.Warnings {
		logger.Warn("config warning", "warning", w)
	}

	db, err := store.Open(filepath.Join(dataDir, "jobscout.db"))
	if err != nil {
		logger.Error("store open failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		logger.Error("store migrate failed", "error", err)
		os.Exit(1)
	}

	// Seen-URL cache is optional; without Redis the store carries dedup alone.
	var seen *cache.SeenCache
	if cfg.Cache.RedisURL != "" {
		seen, err = cache.New(cfg.Cache.RedisURL, time.Duration(cfg.Cache.TTLHours)*time.Hour)
		if err != nil {
			logger.Warn("seen cache unavailable, continuing without it", "error", err)
			seen = nil
		} else {
			defer seen.Close()
		}
	}

	cfg.App.DataDir = dataDir

	svc := ingest.New(db, cfg, seen, logger)
	svc.OnNewPosting = func(p domain.Posting) {
		logger.Info("new posting", "title", p.Title, "company", p.Company, "source", p.Source)
	}

	sched := scheduler.New(svc, cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sched.Start(ctx); err != nil {
		logger.Error("scheduler start failed", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	sched.Stop()
	logger.Info("engine shut down")
}
