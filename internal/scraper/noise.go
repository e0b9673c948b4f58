package scraper

import (
	"strings"
	"unicode/utf8"
)

// DefaultNoiseTitleMaxLen is the length ceiling above which a candidate
// title is assumed to be concatenated page chrome rather than a role name.
// Tuned against observed boards; override via config when it misfires.
const DefaultNoiseTitleMaxLen = 120

// defaultNavPhrases are navigation and marketing strings that show up in
// the same structural position as job rows on board pages. Matching is
// substring-based and deliberately blunt; the filter is a pre-filter, not
// a guarantee.
var defaultNavPhrases = []string{
	"life at", "benefits", "university", "see open roles",
	"current job openings at", "login", "sign in", "sign up",
	"apply now", "apply for this job", "why", "discover",
	"for executives", "for startups", "customer stories", "customers",
	"partners", "cloud providers", "contact us", "careers", "working at",
	"open jobs", "press", "awards and recognition", "newsroom",
	"security and trust", "ready to get started?", "get a demo", "try",
	"about", "events", "blog", "podcast", "insights", "get help",
	"documentation", "community", "resource center", "demo center",
	"architecture center", "who we are", "our team", "ventures",
	"awards", "recognition", "security", "trust", "faq", "help",
	"support", "contact", "legal", "privacy", "terms", "sitemap",
	"cookie", "transparency", "licenses", "annual conference",
	"dashboard",
}

// NoiseFilter rejects board entries that structurally resemble job rows
// but are menu links or CTAs.
type NoiseFilter struct {
	phrases []string
	maxLen  int
}

// NewNoiseFilter builds a filter from the default phrase list plus any
// deployment-specific extras. maxLen <= 0 selects the default ceiling.
func NewNoiseFilter(extraPhrases []string, maxLen int) *NoiseFilter {
	if maxLen <= 0 {
		maxLen = DefaultNoiseTitleMaxLen
	}
	phrases := make([]string, 0, len(defaultNavPhrases)+len(extraPhrases))
	phrases = append(phrases, defaultNavPhrases...)
	for _, p := range extraPhrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			phrases = append(phrases, p)
		}
	}
	return &NoiseFilter{phrases: phrases, maxLen: maxLen}
}

// IsNoise reports whether a candidate title should be dropped.
func (f *NoiseFilter) IsNoise(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return true
	}
	if utf8.RuneCountInString(t) > f.maxLen {
		return true
	}
	hits := 0
	for _, phrase := range f.phrases {
		if strings.Contains(t, phrase) {
			hits++
			if hits > 1 {
				return true
			}
		}
	}
	return hits > 0
}
