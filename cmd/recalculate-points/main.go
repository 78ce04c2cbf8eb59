// Command recalculate-points recomputes the reputation of every freelancer
// profile from stored history.
package main

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/dimitrije/gigmarket-api/internal/config"
	"github.com/dimitrije/gigmarket-api/internal/database"
	"github.com/dimitrije/gigmarket-api/internal/scoring"
	"github.com/dimitrije/gigmarket-api/internal/services"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	reputation := services.NewReputationService(db, scoring.DefaultWeights(), logger)

	ids, err := reputation.ProfileIDs(ctx)
	if err != nil {
		logger.Error("failed to list profiles", "error", err)
		os.Exit(1)
	}

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Reputation.RecalcConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			if _, err := reputation.Recalculate(gctx, id); err != nil {
				failed.Add(1)
				logger.Error("recalculation failed", "user_id", id, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	logger.Info("recalculation finished", "profiles", len(ids), "failed", failed.Load())
	if failed.Load() > 0 {
		os.Exit(1)
	}
}
