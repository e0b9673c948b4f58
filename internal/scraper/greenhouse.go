package scraper

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mverdev/jobsift/internal/content"
	"github.com/mverdev/jobsift/internal/httpx"
)

const greenhouseBase = "https://boards.greenhouse.io"

var greenhouseJobID = regexp.MustCompile(`/jobs/(\d+)`)

// GreenhouseAdapter scrapes a company's public board page. Job rows carry
// a table-row marker unique to postings; descriptions prefer the
// documented per-posting JSON endpoint and fall back to detail-page HTML.
type GreenhouseAdapter struct {
	api       *httpx.PoliteClient
	pages     *httpx.CollyFetcher
	validator *httpx.LinkValidator
	noise     *NoiseFilter

	BaseURL string
}

func NewGreenhouseAdapter(api *httpx.PoliteClient, pages *httpx.CollyFetcher, validator *httpx.LinkValidator, noise *NoiseFilter) *GreenhouseAdapter {
	return &GreenhouseAdapter{
		api:       api,
		pages:     pages,
		validator: validator,
		noise:     noise,
		BaseURL:   greenhouseBase,
	}
}

func (g *GreenhouseAdapter) Platform() string { return "Greenhouse" }

func (g *GreenhouseAdapter) Fetch(ctx context.Context, company, titleFilter string) ([]PartialJob, error) {
	boardURL := fmt.Sprintf("%s/%s", g.BaseURL, company)

	body, _, err := g.pages.FetchBytes(ctx, boardURL)
	if err != nil {
		return nil, fmt.Errorf("greenhouse board %s: %w", company, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("greenhouse parse %s: %w", company, err)
	}

	rows := doc.Find("tr.job-post")
	if rows.Length() == 0 {
		// Unexpected layout; treat as no postings rather than an error.
		slog.Warn("greenhouse: no job rows found", "company", company)
		return nil, nil
	}

	var jobs []PartialJob
	rows.Each(func(_ int, row *goquery.Selection) {
		anchor := row.Find(`a[href*="/jobs/"]`).First()
		href, ok := anchor.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		jobLink := g.absolutize(company, href)

		m := greenhouseJobID.FindStringSubmatch(jobLink)
		if m == nil {
			return
		}
		jobID := m[1]

		title := cleanText(anchor.Find("p.body.body--medium").First().Text())
		if title == "" {
			title = cleanText(anchor.Text())
		}
		if len(title) < 3 || g.noise.IsNoise(title) || !TitleMatches(title, titleFilter) {
			return
		}

		location := cleanText(anchor.Find("p.body.body__secondary.body--metadata").First().Text())

		description := g.fetchDescriptionAPI(ctx, company, jobID)
		if description == "" {
			description = g.fetchDescriptionHTML(ctx, jobLink)
		}

		// Degraded-but-valid fallback for links that do not resolve.
		if !g.validator.IsLive(ctx, jobLink) {
			jobLink = boardURL
		}

		jobs = append(jobs, PartialJob{
			Title:       title,
			Company:     DisplayCompany(company),
			Location:    location,
			Description: description,
			Link:        jobLink,
		})
	})
	return jobs, nil
}

func (g *GreenhouseAdapter) absolutize(company, href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return g.BaseURL + href
	}
	return fmt.Sprintf("%s/%s/%s", g.BaseURL, company, href)
}

// fetchDescriptionAPI reads the per-posting JSON endpoint. Its content
// field is entity-escaped HTML.
func (g *GreenhouseAdapter) fetchDescriptionAPI(ctx context.Context, company, jobID string) string {
	apiURL := fmt.Sprintf("%s/api/v1/boards/%s/jobs/%s", g.BaseURL, company, jobID)
	var detail struct {
		Content string `json:"content"`
	}
	if err := g.api.GetJSON(ctx, apiURL, &detail); err != nil {
		slog.Debug("greenhouse description api failed", "company", company, "job", jobID, "error", err)
		return ""
	}
	if detail.Content == "" {
		return ""
	}
	return content.FirstBlocks(html.UnescapeString(detail.Content))
}

func (g *GreenhouseAdapter) fetchDescriptionHTML(ctx context.Context, jobLink string) string {
	body, _, err := g.pages.FetchBytes(ctx, jobLink)
	if err != nil {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	if text := content.ExtractFromDoc(doc, content.GenericStrategies); text != "" {
		return text
	}
	return content.JobPostingDescription(doc)
}
