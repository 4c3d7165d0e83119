package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental-booking/internal/config"
	"rental-booking/internal/db"
	"rental-booking/internal/logger"
	"rental-booking/internal/repository"
	"rental-booking/internal/router"
	"rental-booking/internal/services"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger(cfg.LogLevel, cfg.LogFormat)
	log.Info().Str("driver", cfg.DBDriver).Msg("Starting rental booking API")

	dialect, err := db.DialectFor(cfg.DBDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid DB_DRIVER")
	}

	database := db.InitDB(cfg.DBDriver, cfg.DBUrl)
	defer database.Close()

	db.RunMigrations(database, dialect)

	store := repository.NewStore(database, dialect)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		users := services.NewUserService(store, log)
		if _, err := users.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("Could not seed admin account")
		}
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.SetupRouter(store, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Msgf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
