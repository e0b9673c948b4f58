package content

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// JobPostingDescription looks for a schema.org JobPosting object in the
// page's JSON-LD scripts and returns its description trimmed to MaxBlocks.
// Used only when structural extraction found nothing.
func JobPostingDescription(doc *goquery.Document) string {
	var out string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, script *goquery.Selection) bool {
		raw := strings.TrimSpace(script.Text())
		if raw == "" {
			return true
		}
		var payload any
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return true
		}
		if posting := findJobPosting(payload); posting != nil {
			if desc, ok := posting["description"].(string); ok && desc != "" {
				out = FirstBlocks(desc)
			}
		}
		return out == ""
	})
	return out
}

func findJobPosting(payload any) map[string]any {
	switch t := payload.(type) {
	case map[string]any:
		if isJobPostingType(t["@type"]) {
			return t
		}
		if graph, ok := t["@graph"].([]any); ok {
			for _, item := range graph {
				if posting := findJobPosting(item); posting != nil {
					return posting
				}
			}
		}
	case []any:
		for _, item := range t {
			if posting := findJobPosting(item); posting != nil {
				return posting
			}
		}
	}
	return nil
}

func isJobPostingType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "JobPosting"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}
