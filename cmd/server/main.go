package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mverdev/jobsift/internal/api"
	"github.com/mverdev/jobsift/internal/config"
	"github.com/mverdev/jobsift/internal/core"
	"github.com/mverdev/jobsift/internal/httpx"
	"github.com/mverdev/jobsift/internal/pool"
	"github.com/mverdev/jobsift/internal/scraper"
	"github.com/mverdev/jobsift/internal/store"
)

const userAgent = "jobsift/1.0"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := config.Load()

	dbStore, err := store.NewStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to store", "error", err)
		os.Exit(1)
	}
	defer dbStore.Close()

	workDir, _ := os.Getwd()
	schemaPath := filepath.Join(workDir, "internal", "store", "schema.sql")
	if err := dbStore.RunMigrations(schemaPath); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	apiClient := httpx.NewPoliteClient(userAgent)
	pageFetcher := httpx.NewCollyFetcher(userAgent)
	// Board hosts see repeated detail-page fetches per run; slow them down
	// below the default host rate.
	pageFetcher.SetHostLimit("boards.greenhouse.io", 2*time.Second, 1)
	pageFetcher.SetHostLimit("jobs.lever.co", 2*time.Second, 1)
	validator := httpx.NewLinkValidator(userAgent)
	noise := scraper.NewNoiseFilter(cfg.ExtraNoisePhrases, cfg.NoiseTitleMaxLen)
	workers := pool.New(cfg.PoolWidth)

	platforms := []core.Platform{
		{Adapter: scraper.NewAshbyAdapter(apiClient, workers), Companies: cfg.AshbyCompanies},
		{Adapter: scraper.NewGreenhouseAdapter(apiClient, pageFetcher, validator, noise), Companies: cfg.GreenhouseCompanies},
		{Adapter: scraper.NewLeverAdapter(apiClient, pageFetcher), Companies: cfg.LeverCompanies},
	}

	ingestion := core.NewIngestionService(dbStore, platforms, workers, cfg.ScrapeInterval)
	ingestion.Start(ctx)

	sessions := core.NewSessionStore(cfg.SessionTTL)
	sessions.StartJanitor(ctx, cfg.SessionTTL/2)

	srv := api.NewServer(dbStore, sessions)

	slog.Info("starting server", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, srv.Router()); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
