package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"presale-backend/config"
	"presale-backend/internal/app"
	"presale-backend/internal/scheduler"
	"presale-backend/pkg/logger"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	envFile := flag.String("env", ".env", "path to .env file")
	flag.Parse()

	// Environment file is optional; PSB_ variables may come from the process.
	envErr := godotenv.Load(*envFile)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	if envErr != nil {
		log.Debug().Str("file", *envFile).Msg("no env file loaded, using process environment")
	}

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting presale backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	if err := app.SeedTokens(ctx, application.TokenAdmin, cfg.Tokens); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed token configurations")
	}

	// Background jobs
	schedCfg := scheduler.Config{}
	if cfg.Reconciler.Enabled {
		schedCfg.ReconcileSchedule = cfg.Reconciler.Schedule
	}
	var sweeper scheduler.Sweeper
	if application.MemoryLimiter != nil {
		sweeper = application.MemoryLimiter
	}
	sched := scheduler.New(application.Reconciler, sweeper, schedCfg, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		sched.Stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("HTTP server failed")
	}
	log.Info().Msg("Server exited")
}
