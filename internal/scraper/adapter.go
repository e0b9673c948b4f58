// Package scraper holds the per-platform adapters that turn ATS boards
// into canonical partial job records.
package scraper

import "context"

// PartialJob is an un-persisted posting as one adapter saw it. The
// orchestrator tags it with its platform and hands it to the store.
type PartialJob struct {
	Title       string
	Company     string
	Location    string
	Description string
	Link        string
}

// Adapter fetches and parses postings for one company on one platform.
//
// An error means the whole company yielded nothing; the scheduler logs it
// and moves on. Per-posting failures (one dead detail page, one broken
// description endpoint) are handled inside the adapter and degrade that
// posting, never the company.
type Adapter interface {
	Platform() string
	Fetch(ctx context.Context, company, titleFilter string) ([]PartialJob, error)
}
