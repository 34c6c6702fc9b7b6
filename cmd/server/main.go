package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"kidsmoney/internal/activity"
	"kidsmoney/internal/config"
	"kidsmoney/internal/content"
	"kidsmoney/internal/database"
	"kidsmoney/internal/handlers"
	"kidsmoney/internal/logging"
	"kidsmoney/internal/security"
	"kidsmoney/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	startup := handlers.NewStartupStatus(
		handlers.StepDatabase,
		handlers.StepMigrations,
		handlers.StepContent,
		handlers.StepServices,
	)

	// Initialize database with config (supports sqlite, postgres, mysql)
	startup.SetCurrentStep(handlers.StepDatabase)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()
	startup.CompleteStep(handlers.StepDatabase)
	logger.Info().Str("type", cfg.DatabaseType).Msg("database connection established")

	startup.SetCurrentStep(handlers.StepMigrations)
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}
	startup.CompleteStep(handlers.StepMigrations)
	logger.Info().Msg("migrations completed successfully")

	startup.SetCurrentStep(handlers.StepContent)
	catalog, err := content.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load lessons")
	}
	startup.CompleteStep(handlers.StepContent)
	logger.Info().Int("stories", catalog.StoryCount()).Msg("lessons loaded")

	startup.SetCurrentStep(handlers.StepServices)
	ctx := context.Background()

	emailService, err := service.NewEmailService(ctx, service.EmailConfig{
		Region:     cfg.AWSRegion,
		FromEmail:  cfg.SESFromEmail,
		FromName:   cfg.SESFromName,
		AppBaseURL: cfg.AppBaseURL,
		Debug:      cfg.EmailDebug,
	}, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("email notifications disabled")
		emailService = nil
	}
	var notifier service.Notifier = service.NopNotifier{}
	if emailService != nil && emailService.IsEnabled() {
		notifier = emailService
	}

	var recorder activity.Recorder = activity.Nop{}
	if cfg.ElasticsearchEnabled() {
		es, err := activity.NewElasticRecorder(ctx, activity.ElasticsearchConfig{
			URL:      cfg.ElasticsearchURL,
			Username: cfg.ElasticsearchUsername,
			Password: cfg.ElasticsearchPassword,
			Index:    cfg.ElasticsearchIndex,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("activity mirroring disabled")
		} else {
			recorder = es
			logger.Info().Str("index", cfg.ElasticsearchIndex).Msg("mirroring transactions to elasticsearch")
		}
	}

	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	deps := service.Deps{
		DB:       db,
		Tokens:   tokens,
		Catalog:  catalog,
		Notifier: notifier,
		Recorder: recorder,
		Logger:   logger,
	}
	if cfg.GoogleEnabled() {
		deps.Google = security.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectURL)
		logger.Info().Msg("google sign-in enabled")
	}
	services := service.New(deps)

	limiter := security.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	defer limiter.Stop()
	middleware := handlers.NewMiddleware(tokens, limiter, logger, cfg.CORSOrigins)
	startup.CompleteStep(handlers.StepServices)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handlers.NewRouter(services, catalog, middleware, startup),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()
	startup.MarkReady()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
