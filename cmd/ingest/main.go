// Package main provides the privileged batch job that loads an
// opportunity feed into the directory table. It runs with the
// service-role DSN and is never exposed to clients. The feed is a JSON
// array of opportunities; without -file it reseeds from the bundled
// snapshot.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/volunteer-hub/internal/config"
	"github.com/volunteer-hub/internal/logging"
	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/retry"
	"github.com/volunteer-hub/internal/storage"
)

func main() {
	feedPath := flag.String("file", "", "path to a JSON opportunity feed (default: bundled snapshot)")
	keepStale := flag.Bool("keep-stale", false, "skip deactivating rows the feed no longer carries")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logging.InitGlobalLogger(
		logging.ParseLogLevel(cfg.Logging.Level),
		logging.ParseLogFormat(cfg.Logging.Format),
	)
	logger := logging.GetGlobalLogger()

	dsn := config.ServiceRoleDSN()
	if dsn == "" {
		logger.Fatal("SERVICE_ROLE_DSN is required for opportunity ingestion")
	}

	feed, err := loadFeed(*feedPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load opportunity feed")
	}

	db, err := storage.NewPostgresDBFromDSN(dsn)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to backend")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logging.WithLogger(ctx, logger)

	repo := storage.NewOpportunityRepository(db)

	logger.WithField("rows", len(feed)).Info("Starting opportunity ingestion")

	// Rows upserted after this instant are considered touched by this run;
	// anything older from the same source gets deactivated below.
	start := time.Now().UTC()

	written := 0
	skipped := 0
	failed := 0
	sources := make(map[string]bool)
	for _, o := range feed {
		if o.Source == "" || o.SourceID == "" || o.Title == "" {
			skipped++
			logger.WithField("sourceId", o.SourceID).Warn("Skipping feed row missing source, source id, or title")
			continue
		}
		err := retry.Do(ctx, func(ctx context.Context, attempt int) error {
			_, upsertErr := repo.Upsert(ctx, o)
			return upsertErr
		})
		if err != nil {
			failed++
			logger.WithError(err).WithFields(map[string]interface{}{
				"source":   o.Source,
				"sourceId": o.SourceID,
			}).Warn("Failed to upsert opportunity")
			continue
		}
		written++
		sources[o.Source] = true
	}

	deactivated := int64(0)
	if !*keepStale {
		for source := range sources {
			n, err := repo.DeactivateStale(ctx, source, start)
			if err != nil {
				logger.WithError(err).WithField("source", source).Warn("Failed to deactivate stale opportunities")
				continue
			}
			deactivated += n
		}
	}

	// Cached directory pages are now stale; a failed invalidation only
	// delays fresh reads until the TTL expires.
	if cfg.Database.Redis.Enabled() {
		redis, err := storage.NewRedisCache(&cfg.Database.Redis)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, cached opportunity reads stay stale until TTL")
		} else {
			cache := storage.NewCacheService(redis, cfg.Cache.TTL)
			if err := cache.InvalidateOpportunities(ctx); err != nil {
				logger.WithError(err).Warn("Failed to invalidate opportunity cache")
			}
			redis.Close()
		}
	}

	logger.WithFields(map[string]interface{}{
		"written":     written,
		"skipped":     skipped,
		"failed":      failed,
		"deactivated": deactivated,
	}).Info("Opportunity ingestion finished")
}

func loadFeed(path string) ([]*models.Opportunity, error) {
	if path == "" {
		return storage.LoadSnapshotOpportunities()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed file: %w", err)
	}
	var feed []*models.Opportunity
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("failed to decode feed file: %w", err)
	}
	return feed, nil
}
