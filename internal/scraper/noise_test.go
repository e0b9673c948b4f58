package scraper

import (
	"strings"
	"testing"
)

func TestNoiseFilterRejectsNavPhrases(t *testing.T) {
	f := NewNoiseFilter(nil, 0)

	noisy := []string{
		"Sign In",
		"Careers",
		"See Open Roles",
		"Apply Now",
		"Current Job Openings at Acme",
	}
	for _, title := range noisy {
		if !f.IsNoise(title) {
			t.Errorf("expected %q to be noise", title)
		}
	}
}

func TestNoiseFilterKeepsRealTitles(t *testing.T) {
	f := NewNoiseFilter(nil, 0)

	real := []string{
		"Senior Software Engineer",
		"Backend Engineer, Payments",
		"Staff Data Engineer",
	}
	for _, title := range real {
		if f.IsNoise(title) {
			t.Errorf("expected %q to pass the filter", title)
		}
	}
}

func TestNoiseFilterRejectsEmptyAndOversized(t *testing.T) {
	f := NewNoiseFilter(nil, 0)

	if !f.IsNoise("   ") {
		t.Fatalf("expected blank title to be noise")
	}
	long := strings.Repeat("Engineering Manager ", 10)
	if !f.IsNoise(long) {
		t.Fatalf("expected %d-char title to be noise", len(long))
	}
}

func TestNoiseFilterCeilingCountsRunes(t *testing.T) {
	// 11 runes but 13 bytes; a byte-based ceiling of 12 would reject it.
	f := NewNoiseFilter(nil, 12)

	if f.IsNoise("Développeur") {
		t.Fatalf("expected multibyte title within ceiling to pass")
	}
	if !f.IsNoise("Développeur Logiciel Senior Backend") {
		t.Fatalf("expected title over ceiling to be noise")
	}
}

func TestNoiseFilterExtraPhrasesAndCeiling(t *testing.T) {
	f := NewNoiseFilter([]string{"Webinars"}, 40)

	if !f.IsNoise("Upcoming Webinars") {
		t.Fatalf("expected extra phrase to be noise")
	}
	if !f.IsNoise("Senior Software Engineer for Distributed Systems") {
		t.Fatalf("expected title over custom ceiling to be noise")
	}
	if f.IsNoise("Backend Engineer") {
		t.Fatalf("expected short real title to pass")
	}
}
