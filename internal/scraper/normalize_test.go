package scraper

import "testing"

func TestTitleMatchesIgnoresCaseAndPunctuation(t *testing.T) {
	if !TitleMatches("Sr. Software Engineer - Backend", "software engineer") {
		t.Fatalf("expected punctuation-insensitive match")
	}
	if !TitleMatches("SOFTWARE ENGINEER", "Software Engineer") {
		t.Fatalf("expected case-insensitive match")
	}
	if TitleMatches("Product Designer", "engineer") {
		t.Fatalf("expected no match")
	}
}

func TestTitleMatchesEmptyFilterMatchesEverything(t *testing.T) {
	if !TitleMatches("Anything at all", "") {
		t.Fatalf("empty filter should match")
	}
	if !TitleMatches("Anything at all", "   ") {
		t.Fatalf("blank filter should match")
	}
}

func TestDisplayCompany(t *testing.T) {
	if got := DisplayCompany("gofundme"); got != "Gofundme" {
		t.Fatalf("unexpected display name: %q", got)
	}
	if got := DisplayCompany("  OPENAI "); got != "Openai" {
		t.Fatalf("unexpected display name: %q", got)
	}
}

func TestSameCompany(t *testing.T) {
	if !SameCompany(" Acme", "acme ") {
		t.Fatalf("expected case-insensitive company equality")
	}
	if SameCompany("acme", "acme-inc") {
		t.Fatalf("expected different companies")
	}
}
