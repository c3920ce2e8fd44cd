package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-commandes/confirm"
	"github.com/diewo77/go-commandes/internal/backend"
	"github.com/diewo77/go-commandes/internal/config"
	"github.com/diewo77/go-commandes/internal/db"
	"github.com/diewo77/go-commandes/internal/events"
	"github.com/diewo77/go-commandes/internal/handlers"
	"github.com/diewo77/go-commandes/internal/services"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("load configuration")
	}
	log := newLogger(cfg.App)

	dbConn, err := db.Connect(db.Options{
		DSN:           cfg.Database.DSN,
		SQLMigrations: cfg.Database.Migrations,
		Debug:         cfg.Database.Debug,
		Retries:       5,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if *migrateOnlyFlag {
		log.Info().Msg("migrations completed successfully")
		return
	}

	pub := events.New(cfg.Events.Brokers, cfg.Events.Topic)
	defer pub.Close()

	deps := handlers.Deps{
		API: backend.New(cfg.Backend.BaseURL,
			backend.WithTimeout(cfg.Backend.Timeout),
			backend.WithLogger(log.With().Str("component", "backend").Logger()),
		),
		Audit:   services.NewAuditService(dbConn, pub, log.With().Str("component", "audit").Logger()),
		Confirm: confirm.New(cfg.App.ConfirmSecret, cfg.App.ConfirmTTL),
		Log:     log,
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewApp(deps, dbConn),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("backend", cfg.Backend.BaseURL).Bool("dev", cfg.App.Dev()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped gracefully")
}

// newLogger builds a JSON logger, or a console one in development.
func newLogger(app config.AppConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(app.LogLevel)
	if err != nil || app.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	var log zerolog.Logger
	if app.Dev() {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger()
}
