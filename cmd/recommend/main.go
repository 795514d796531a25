// Package main provides the privileged batch job that regenerates
// opportunity recommendations for every complete profile. It runs with
// the service-role DSN and is never exposed to clients.
package main

import (
	"context"
	"log"
	"time"

	"github.com/volunteer-hub/internal/config"
	"github.com/volunteer-hub/internal/logging"
	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/retry"
	"github.com/volunteer-hub/internal/service"
	"github.com/volunteer-hub/internal/storage"
)

func main() {
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
		logger.Fatal("SERVICE_ROLE_DSN is required for recommendation generation")
	}

	db, err := storage.NewPostgresDBFromDSN(dsn)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to backend")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logging.WithLogger(ctx, logger)

	profiles := storage.NewProfileRepository(db)
	opportunities := storage.NewOpportunityRepository(db)
	recommendations := storage.NewRecommendationRepository(db)
	scorer := service.NewRecommendationService(recommendations)

	// Transient backend hiccups are retried; a persistent failure aborts
	// the run and leaves the previous recommendations in place.
	var candidates []*models.Profile
	err = retry.Do(ctx, func(ctx context.Context, attempt int) error {
		var listErr error
		candidates, listErr = profiles.ListComplete(ctx)
		return listErr
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to list complete profiles")
	}

	var active []*models.Opportunity
	err = retry.Do(ctx, func(ctx context.Context, attempt int) error {
		var listErr error
		active, listErr = opportunities.List(ctx, &models.OpportunityFilter{Limit: 1000})
		return listErr
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to list active opportunities")
	}

	logger.WithFields(map[string]interface{}{
		"profiles":      len(candidates),
		"opportunities": len(active),
	}).Info("Starting recommendation generation")

	written := 0
	failed := 0
	for _, profile := range candidates {
		n, err := scorer.GenerateForProfile(ctx, profile, active)
		if err != nil {
			failed++
			logger.WithError(err).WithField("userId", profile.ID).Warn("Failed to generate recommendations for profile")
			continue
		}
		written += n
	}

	logger.WithFields(map[string]interface{}{
		"written": written,
		"failed":  failed,
	}).Info("Recommendation generation finished")
}
