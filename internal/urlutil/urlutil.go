package urlutil

import (
	"net/url"
	"strings"
)

// Normalize parses a raw URL, defaults the scheme to https, drops the
// fragment, and lowercases the host. Returns the normalized URL and host.
func Normalize(raw string) (string, string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	u.Fragment = ""
	u.Host = NormalizeHost(u.Host)
	return u.String(), u.Hostname(), nil
}

func NormalizeHost(host string) string {
	host = strings.ToLower(host)
	return strings.TrimPrefix(host, "www.")
}

// Absolutize resolves an href found on a board page against the platform
// base URL. Absolute hrefs pass through untouched.
func Absolutize(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base = strings.TrimSuffix(base, "/")
	if strings.HasPrefix(href, "/") {
		return base + href
	}
	return base + "/" + href
}

// PathSegments returns the non-empty path segments of a URL. Used by the
// board scrapers to match posting anchors like /{company}/{id}.
func PathSegments(rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
