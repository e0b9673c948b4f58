package scraper

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var companyCaser = cases.Title(language.English)

// DisplayCompany turns a board slug like "gofundme" into its display
// casing. Comparisons stay case-insensitive; this is presentation only.
func DisplayCompany(slug string) string {
	return companyCaser.String(strings.ToLower(strings.TrimSpace(slug)))
}

func SameCompany(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

var titleFilterStrip = regexp.MustCompile(`[^a-z0-9 ]`)

func normalizeTitle(s string) string {
	return titleFilterStrip.ReplaceAllString(strings.ToLower(s), "")
}

// TitleMatches reports whether a posting title satisfies the caller's
// filter, compared after stripping case and punctuation. An empty filter
// matches everything.
func TitleMatches(title, filter string) bool {
	if strings.TrimSpace(filter) == "" {
		return true
	}
	return strings.Contains(normalizeTitle(title), normalizeTitle(filter))
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
