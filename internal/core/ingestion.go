package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/mverdev/jobsift/internal/observability"
	"github.com/mverdev/jobsift/internal/pool"
	"github.com/mverdev/jobsift/internal/scraper"
	"github.com/mverdev/jobsift/internal/store"
	"github.com/mverdev/jobsift/internal/urlutil"
)

// JobSink is what the orchestrator needs from the persistent store.
type JobSink interface {
	UpsertBatch(ctx context.Context, jobs []store.Job) (store.BatchResult, error)
}

// Platform binds one adapter to the companies it covers.
type Platform struct {
	Adapter   scraper.Adapter
	Companies []string
}

// IngestionService sequences the platforms, fans each platform's
// companies out over the shared pool, and commits the flattened batch.
type IngestionService struct {
	sink      JobSink
	platforms []Platform
	pool      *pool.Pool
	interval  time.Duration
}

func NewIngestionService(sink JobSink, platforms []Platform, p *pool.Pool, interval time.Duration) *IngestionService {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &IngestionService{
		sink:      sink,
		platforms: platforms,
		pool:      p,
		interval:  interval,
	}
}

func (s *IngestionService) Start(ctx context.Context) {
	go s.scrapeLoop(ctx)
}

func (s *IngestionService) scrapeLoop(ctx context.Context) {
	if err := s.RunOnce(ctx); err != nil {
		slog.Error("ingestion run failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				slog.Error("ingestion run failed", "error", err)
			}
		}
	}
}

// RunOnce processes platforms one after another to bound total host-side
// pressure; only the companies within a platform run concurrently. All
// results land in one batch committed through a single transaction, so a
// persistence failure leaves the store unchanged for the run.
func (s *IngestionService) RunOnce(ctx context.Context) error {
	slog.Info("ingestion run started", "platforms", len(s.platforms), "width", s.pool.Width())

	var batch []store.Job
	for _, platform := range s.platforms {
		name := platform.Adapter.Platform()
		started := time.Now()

		res := pool.Map(ctx, s.pool, name, platform.Companies,
			func(ctx context.Context, company string) ([]scraper.PartialJob, error) {
				return platform.Adapter.Fetch(ctx, company, "")
			})

		observability.ObserveFetchDuration(time.Since(started).Seconds())
		observability.AddCompaniesFetched(res.Succeeded)
		observability.AddPostingsDiscovered(len(res.Results))
		slog.Info("platform fetch complete",
			"platform", name,
			"companies", res.Attempted,
			"succeeded", res.Succeeded,
			"postings", len(res.Results))

		for _, job := range res.Results {
			if job.Link == "" {
				// Empty-link candidates never reach the store.
				continue
			}
			// Links are the dedupe identity, so variants of the same URL
			// must collapse before they hit the unique index.
			link, _, err := urlutil.Normalize(job.Link)
			if err != nil {
				slog.Warn("dropping job with unparseable link", "link", job.Link, "error", err)
				continue
			}
			batch = append(batch, store.Job{
				Title:       job.Title,
				Company:     job.Company,
				Location:    job.Location,
				Description: job.Description,
				Link:        link,
				Source:      name,
			})
		}
	}

	result, err := s.sink.UpsertBatch(ctx, batch)
	if err != nil {
		observability.IncError(observability.ErrorStore, "ingestion")
		slog.Error("batch commit failed, store unchanged", "error", err)
		return err
	}

	observability.AddBatchOutcome(result.Inserted, result.Updated, result.Skipped)
	slog.Info("ingestion batch committed",
		"inserted", result.Inserted,
		"updated", result.Updated,
		"skipped", result.Skipped)
	return nil
}
