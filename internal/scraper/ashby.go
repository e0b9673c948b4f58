package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mverdev/jobsift/internal/content"
	"github.com/mverdev/jobsift/internal/httpx"
	"github.com/mverdev/jobsift/internal/pool"
)

const (
	ashbyBase = "https://jobs.ashbyhq.com"

	ashbyBoardQuery = `query ApiJobBoardWithTeams($organizationHostedJobsPageName: String!) {
  jobBoard: jobBoardWithTeams(
    organizationHostedJobsPageName: $organizationHostedJobsPageName
  ) {
    teams { id name parentTeamId __typename }
    jobPostings {
      id title teamId locationId locationName workplaceType employmentType __typename }
    __typename
  }
}`

	ashbyPostingQuery = `query ApiJobPosting($jobPostingId: String!, $organizationHostedJobsPageName: String!) { jobPosting(jobPostingId: $jobPostingId, organizationHostedJobsPageName: $organizationHostedJobsPageName) { id title descriptionHtml } }`
)

type graphQLRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type ashbyTeam struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ashbyPosting struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	TeamID       string `json:"teamId"`
	LocationName string `json:"locationName"`
}

type ashbyBoardResponse struct {
	Data struct {
		JobBoard *struct {
			Teams       []ashbyTeam    `json:"teams"`
			JobPostings []ashbyPosting `json:"jobPostings"`
		} `json:"jobBoard"`
	} `json:"data"`
}

type ashbyPostingResponse struct {
	Data struct {
		JobPosting *struct {
			ID              string `json:"id"`
			Title           string `json:"title"`
			DescriptionHTML string `json:"descriptionHtml"`
		} `json:"jobPosting"`
	} `json:"data"`
}

// AshbyAdapter speaks the board's GraphQL endpoint: one query lists a
// company's postings with team metadata, a second fetches each posting's
// description HTML with its own bounded fan-out.
type AshbyAdapter struct {
	client   *httpx.PoliteClient
	descPool *pool.Pool

	// BaseURL is overridable for tests; the GraphQL endpoint hangs off it.
	BaseURL string
}

func NewAshbyAdapter(client *httpx.PoliteClient, descPool *pool.Pool) *AshbyAdapter {
	return &AshbyAdapter{
		client:   client,
		descPool: descPool,
		BaseURL:  ashbyBase,
	}
}

func (a *AshbyAdapter) Platform() string { return "Ashby" }

func (a *AshbyAdapter) graphQLURL() string {
	return a.BaseURL + "/api/non-user-graphql"
}

func (a *AshbyAdapter) Fetch(ctx context.Context, company, titleFilter string) ([]PartialJob, error) {
	req := graphQLRequest{
		OperationName: "ApiJobBoardWithTeams",
		Query:         ashbyBoardQuery,
		Variables:     map[string]any{"organizationHostedJobsPageName": company},
	}
	var resp ashbyBoardResponse
	if err := a.client.PostJSON(ctx, a.graphQLURL(), req, &resp); err != nil {
		return nil, fmt.Errorf("ashby board %s: %w", company, err)
	}
	board := resp.Data.JobBoard
	if board == nil || len(board.JobPostings) == 0 {
		return nil, nil
	}

	teams := make(map[string]string, len(board.Teams))
	for _, team := range board.Teams {
		teams[team.ID] = team.Name
	}

	var postings []ashbyPosting
	for _, p := range board.JobPostings {
		title := cleanText(p.Title)
		if p.ID == "" || len(title) < 3 {
			continue
		}
		if !TitleMatches(title, titleFilter) {
			continue
		}
		postings = append(postings, p)
	}

	batch := pool.Map(ctx, a.descPool, "ashby:"+company, postings,
		func(ctx context.Context, p ashbyPosting) ([]PartialJob, error) {
			location := cleanText(p.LocationName)
			if location == "" {
				location = cleanText(teams[p.TeamID])
			}
			return []PartialJob{{
				Title:       cleanText(p.Title),
				Company:     DisplayCompany(company),
				Location:    location,
				Description: a.fetchDescription(ctx, company, p.ID),
				Link:        fmt.Sprintf("%s/%s/%s", a.BaseURL, company, p.ID),
			}}, nil
		})
	return batch.Results, nil
}

// fetchDescription degrades to an empty string; a broken description
// endpoint never drops the posting itself.
func (a *AshbyAdapter) fetchDescription(ctx context.Context, company, postingID string) string {
	req := graphQLRequest{
		OperationName: "ApiJobPosting",
		Query:         ashbyPostingQuery,
		Variables: map[string]any{
			"jobPostingId":                   postingID,
			"organizationHostedJobsPageName": company,
		},
	}
	var resp ashbyPostingResponse
	if err := a.client.PostJSON(ctx, a.graphQLURL()+"?op=ApiJobPosting", req, &resp); err != nil {
		slog.Warn("ashby description fetch failed", "company", company, "posting", postingID, "error", err)
		return ""
	}
	if resp.Data.JobPosting == nil {
		return ""
	}
	return content.FirstBlocks(resp.Data.JobPosting.DescriptionHTML)
}
