package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mverdev/jobsift/internal/content"
	"github.com/mverdev/jobsift/internal/httpx"
	"github.com/mverdev/jobsift/internal/urlutil"
)

const (
	leverAPIBase   = "https://api.lever.co/v0/postings"
	leverBoardBase = "https://jobs.lever.co"
)

// leverDescriptionStrategies put the board's own description container
// ahead of the generic chain.
var leverDescriptionStrategies = append([]content.Strategy{
	{Name: "lever-posting", Selector: `div[data-qa="job-description"]`},
}, content.GenericStrategies...)

type leverPosting struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	HostedURL  string `json:"hostedUrl"`
	Categories struct {
		Location string `json:"location"`
		Team     string `json:"team"`
	} `json:"categories"`
}

// LeverAdapter prefers the public postings API and falls back to scraping
// the board page for anchors shaped like /{company}/{id}.
type LeverAdapter struct {
	api   *httpx.PoliteClient
	pages *httpx.CollyFetcher

	APIBase   string
	BoardBase string
}

func NewLeverAdapter(api *httpx.PoliteClient, pages *httpx.CollyFetcher) *LeverAdapter {
	return &LeverAdapter{
		api:       api,
		pages:     pages,
		APIBase:   leverAPIBase,
		BoardBase: leverBoardBase,
	}
}

func (l *LeverAdapter) Platform() string { return "Lever" }

func (l *LeverAdapter) Fetch(ctx context.Context, company, titleFilter string) ([]PartialJob, error) {
	apiURL := fmt.Sprintf("%s/%s?mode=json", l.APIBase, company)

	var postings []leverPosting
	err := l.api.GetJSON(ctx, apiURL, &postings)
	if err == nil {
		return l.fromAPI(ctx, company, titleFilter, postings), nil
	}
	slog.Warn("lever api unavailable, scraping board", "company", company, "error", err)
	return l.fromBoard(ctx, company, titleFilter)
}

func (l *LeverAdapter) fromAPI(ctx context.Context, company, titleFilter string, postings []leverPosting) []PartialJob {
	var jobs []PartialJob
	for _, p := range postings {
		title := cleanText(p.Text)
		if p.HostedURL == "" || len(title) < 3 {
			continue
		}
		if !TitleMatches(title, titleFilter) {
			continue
		}
		jobs = append(jobs, PartialJob{
			Title:       title,
			Company:     DisplayCompany(company),
			Location:    joinLocations(p.Categories.Location),
			Description: l.fetchDescription(ctx, p.HostedURL),
			Link:        p.HostedURL,
		})
	}
	return jobs
}

func (l *LeverAdapter) fromBoard(ctx context.Context, company, titleFilter string) ([]PartialJob, error) {
	boardURL := fmt.Sprintf("%s/%s", l.BoardBase, company)
	body, _, err := l.pages.FetchBytes(ctx, boardURL)
	if err != nil {
		return nil, fmt.Errorf("lever board %s: %w", company, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("lever parse %s: %w", company, err)
	}

	seen := make(map[string]struct{})
	var jobs []PartialJob
	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		link := urlutil.Absolutize(l.BoardBase, href)

		// Posting links have exactly /{company}/{id}.
		segments := urlutil.PathSegments(link)
		if len(segments) != 2 || !SameCompany(segments[0], company) {
			return
		}
		if _, ok := seen[link]; ok {
			return
		}

		title := cleanText(anchor.Text())
		if len(title) < 3 || isApplyCTA(title) || !TitleMatches(title, titleFilter) {
			return
		}

		seen[link] = struct{}{}
		jobs = append(jobs, PartialJob{
			Title:       title,
			Company:     DisplayCompany(company),
			Location:    "",
			Description: l.fetchDescription(ctx, link),
			Link:        link,
		})
	})
	return jobs, nil
}

func (l *LeverAdapter) fetchDescription(ctx context.Context, jobLink string) string {
	body, _, err := l.pages.FetchBytes(ctx, jobLink)
	if err != nil {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	if text := content.ExtractFromDoc(doc, leverDescriptionStrategies); text != "" {
		return text
	}
	return content.JobPostingDescription(doc)
}

// joinLocations rewrites the comma-joined location categories with
// consistent spacing.
func joinLocations(raw string) string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

func isApplyCTA(title string) bool {
	switch strings.ToLower(strings.TrimSpace(title)) {
	case "apply", "apply now", "apply for this job":
		return true
	}
	return false
}
