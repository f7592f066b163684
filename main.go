package main

import (
	"context"
	"net/http"
	"time"

	"squnch/analytics"
	"squnch/artifact"
	"squnch/batch"
	"squnch/config"
	"squnch/engine"
	"squnch/history"
	"squnch/logger"
	"squnch/routes"
	"squnch/store"
)

func main() {
	if err := logger.Init(config.GetLogFile()); err != nil {
		logger.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()
	logger.Info("Starting Squnch server initialization")

	jobs := store.New()
	batches := batch.NewTracker()
	stats := analytics.NewTracker()

	artifacts, err := artifact.NewResolver(config.GetServeDir(), jobs)
	if err != nil {
		logger.Fatalf("Failed to initialize artifact resolver: %v", err)
	}

	logger.Debug("Opening history database")
	hist, err := history.Open(config.GetHistoryDBPath())
	if err != nil {
		logger.Fatalf("Failed to initialize history store: %v", err)
	}
	defer hist.Close()
	logger.Info("History database initialized successfully")

	// The store fires these exactly once per job, on its terminal
	// transition. Batch and analytics counters depend on that guarantee.
	jobs.OnTerminal(batches.ObserveTerminal)
	jobs.OnTerminal(stats.ObserveTerminal)
	jobs.OnTerminal(hist.ObserveTerminal)

	images := engine.NewImageEngine(jobs, artifacts)
	videos, err := engine.NewVideoEngine(jobs, artifacts, config.GetScratchDir(), config.GetVideoTimeout(), engine.ExportConfig{
		Backend:    config.GetExportBackend(),
		AccessInfo: config.GetExportAccessInfo(),
	})
	if err != nil {
		logger.Fatalf("Failed to initialize video engine: %v", err)
	}

	// Start cleanup routine for old history records (runs every 24 hours)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cleanupRoutine(ctx, hist)

	logger.Info("Registering HTTP routes")
	handlers := &routes.Handlers{
		Jobs:      jobs,
		Batches:   batches,
		Analytics: stats,
		Artifacts: artifacts,
		History:   hist,
		Images:    images,
		Videos:    videos,
	}
	mux := http.NewServeMux()
	handlers.Register(mux)

	addr := config.GetListenAddr()
	logger.Infof("Squnch server starting on %s", addr)
	if err := http.ListenAndServe(addr, routes.WithCORS(mux)); err != nil {
		logger.Fatalf("Server failed to start: %v", err)
	}
}

// cleanupRoutine periodically prunes old history records.
func cleanupRoutine(ctx context.Context, hist *history.Store) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup routine stopped due to context cancellation")
			return
		case <-ticker.C:
			maxAge := 30 * 24 * time.Hour
			logger.Debugf("Cleaning up history records older than %v", maxAge)
			if err := hist.CleanupOldRecords(maxAge); err != nil {
				logger.Errorf("Failed to cleanup old history records: %v", err)
			} else {
				logger.Info("Scheduled history cleanup completed")
			}
		}
	}
}
