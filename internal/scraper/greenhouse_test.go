package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mverdev/jobsift/internal/httpx"
)

const greenhouseBoardHTML = `
<html><body><table>
<tr class="job-post"><td>
  <a href="/acme/jobs/123">
    <p class="body body--medium">Backend Engineer</p>
    <p class="body body__secondary body--metadata">Remote - US</p>
  </a>
</td></tr>
<tr class="job-post"><td>
  <a href="/acme/jobs/777">
    <p class="body body--medium">Data Engineer</p>
    <p class="body body__secondary body--metadata">New York</p>
  </a>
</td></tr>
<tr class="job-post"><td>
  <a href="/acme/jobs/999">
    <p class="body body--medium">Sign In</p>
  </a>
</td></tr>
</table></body></html>`

func newGreenhouseTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/acme":
			fmt.Fprint(w, greenhouseBoardHTML)
		case "/api/v1/boards/acme/jobs/123":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"content": "&lt;p&gt;Build data pipelines.&lt;/p&gt;&lt;p&gt;Ship weekly.&lt;/p&gt;"}`)
		case "/acme/jobs/123":
			// Detail page exists; HEAD validation passes.
			fmt.Fprint(w, "<html><body>ok</body></html>")
		default:
			// Posting 777 has no working API detail, no detail page, and a
			// dead link.
			http.NotFound(w, r)
		}
	}))
}

func newGreenhouseTestAdapter(srvURL string) *GreenhouseAdapter {
	adapter := NewGreenhouseAdapter(
		httpx.NewPoliteClient("test-agent"),
		httpx.NewCollyFetcher("test-agent"),
		httpx.NewLinkValidator("test-agent"),
		NewNoiseFilter(nil, 0),
	)
	adapter.BaseURL = srvURL
	return adapter
}

func TestGreenhouseFetchParsesBoardRows(t *testing.T) {
	srv := newGreenhouseTestServer(t)
	defer srv.Close()

	adapter := newGreenhouseTestAdapter(srv.URL)
	jobs, err := adapter.Fetch(context.Background(), "acme", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs (noise row dropped), got %d: %+v", len(jobs), jobs)
	}

	j := jobs[0]
	if j.Title != "Backend Engineer" || j.Company != "Acme" {
		t.Fatalf("unexpected job: %+v", j)
	}
	if j.Location != "Remote - US" {
		t.Fatalf("unexpected location: %q", j.Location)
	}
	if j.Link != srv.URL+"/acme/jobs/123" {
		t.Fatalf("unexpected link: %q", j.Link)
	}
	if j.Description != "Build data pipelines.\nShip weekly." {
		t.Fatalf("unexpected description: %q", j.Description)
	}
}

func TestGreenhouseFetchDegradesDeadLinkToBoard(t *testing.T) {
	srv := newGreenhouseTestServer(t)
	defer srv.Close()

	adapter := newGreenhouseTestAdapter(srv.URL)
	jobs, err := adapter.Fetch(context.Background(), "acme", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var dead *PartialJob
	for i := range jobs {
		if jobs[i].Title == "Data Engineer" {
			dead = &jobs[i]
		}
	}
	if dead == nil {
		t.Fatalf("missing Data Engineer job: %+v", jobs)
	}
	if dead.Link != srv.URL+"/acme" {
		t.Fatalf("expected board fallback link, got %q", dead.Link)
	}
	if dead.Description != "" {
		t.Fatalf("expected empty description for broken detail, got %q", dead.Description)
	}
}

func TestGreenhouseFetchAppliesTitleFilter(t *testing.T) {
	srv := newGreenhouseTestServer(t)
	defer srv.Close()

	adapter := newGreenhouseTestAdapter(srv.URL)
	jobs, err := adapter.Fetch(context.Background(), "acme", "backend")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Title != "Backend Engineer" {
		t.Fatalf("unexpected filtered jobs: %+v", jobs)
	}
}

func TestGreenhouseFetchNoRowsIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ghost" {
			fmt.Fprint(w, "<html><body><p>Nothing here</p></body></html>")
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	adapter := newGreenhouseTestAdapter(srv.URL)
	jobs, err := adapter.Fetch(context.Background(), "ghost", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected no jobs, got %+v", jobs)
	}
}
