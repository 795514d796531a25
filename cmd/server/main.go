// Package main provides the API server entry point for the volunteer hub
// service.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/volunteer-hub/internal/api"
	"github.com/volunteer-hub/internal/auth"
	"github.com/volunteer-hub/internal/config"
	"github.com/volunteer-hub/internal/logging"
	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/service"
	"github.com/volunteer-hub/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Select the store once for the life of the process. A missing or
	// unreachable backend degrades to the local fallback store; the mode
	// never changes after this point.
	store, postgres := storage.SelectStore(cfg, logger)
	if postgres != nil {
		defer postgres.Close()
	}
	logger.WithField("mode", store.Mode()).Info("Store selected")

	// The local store doubles as session persistence in both modes.
	localSessions, err := storage.NewLocalStore(cfg.LocalStore.Dir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize session persistence")
	}

	// Auth bridge
	bridge := auth.NewBridge(auth.Config{
		Tokens:          auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Sessions:        localSessions,
		ProviderBaseURL: cfg.Auth.ProviderBaseURL,
		RedirectURL:     cfg.Auth.RedirectURL,
		Logger:          logger,
	})

	// Optional Redis cache for the public opportunity directory.
	var cacheService *storage.CacheService
	if cfg.Database.Redis.Enabled() {
		redis, err := storage.NewRedisCache(&cfg.Database.Redis)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, opportunity reads go uncached")
		} else {
			defer redis.Close()
			cacheService = storage.NewCacheService(redis, cfg.Cache.TTL)
			logger.Info("Opportunity cache enabled")
		}
	}

	// Opportunity directory with snapshot fallback.
	var oppRepo *storage.OpportunityRepository
	var recRepo *storage.RecommendationRepository
	if postgres != nil {
		oppRepo = storage.NewOpportunityRepository(postgres)
		recRepo = storage.NewRecommendationRepository(postgres)
	}
	directory, err := storage.NewOpportunityDirectory(oppRepo, cacheService, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load opportunity snapshot")
	}

	var recommendations *service.RecommendationService
	if recRepo != nil {
		recommendations = service.NewRecommendationService(recRepo)
	}

	// Reminder timers live in-process only; they are lost on restart.
	reminders := service.NewReminderScheduler(logger, func(event *models.Event) {
		logger.WithFields(map[string]interface{}{
			"eventId": event.ID,
			"title":   event.Title,
		}).Info("Upcoming volunteer commitment")
	})
	defer reminders.Stop()

	server := api.NewServer(&api.ServerConfig{
		Host:              cfg.Server.Host,
		Port:              cfg.Server.Port,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	}, &api.Deps{
		Bridge:          bridge,
		Store:           store,
		HoursService:    service.NewHoursService(store),
		LetterService:   service.NewLetterService(store),
		CalendarService: service.NewCalendarService(store),
		ExportService:   service.NewExportService(store, logger),
		Directory:       directory,
		Recommendations: recommendations,
		Reminders:       reminders,
		Logger:          logger,
	})

	// Start serving
	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.WithError(err).Fatal("Server failed")
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
}
