package httpx

import (
	"context"
	"net/http"
	"time"
)

// LinkValidator checks whether a constructed posting link actually resolves.
// Adapters use it as a last-resort correctness pass before handing a record
// to the store; a dead link degrades to the company board URL instead.
type LinkValidator struct {
	client *http.Client
	ua     string
}

func NewLinkValidator(userAgent string) *LinkValidator {
	if userAgent == "" {
		userAgent = "jobsift-bot/1.0"
	}
	return &LinkValidator{
		// Redirects are followed by default; only the final status counts.
		client: &http.Client{Timeout: 5 * time.Second},
		ua:     userAgent,
	}
}

// IsLive issues a HEAD request and reports whether the URL answers 200.
// Any network failure counts as not live.
func (v *LinkValidator) IsLive(ctx context.Context, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", v.ua)

	resp, err := v.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
