package urlutil

import (
	"reflect"
	"testing"
)

func TestNormalizeDefaultsSchemeAndLowercasesHost(t *testing.T) {
	got, host, err := Normalize("WWW.Example.COM/Careers#team")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://example.com/Careers" {
		t.Fatalf("unexpected url: %q", got)
	}
	if host != "example.com" {
		t.Fatalf("unexpected host: %q", host)
	}
}

func TestAbsolutize(t *testing.T) {
	base := "https://jobs.lever.co"

	if got := Absolutize(base, "/acme/123"); got != "https://jobs.lever.co/acme/123" {
		t.Fatalf("unexpected absolute url: %q", got)
	}
	if got := Absolutize(base, "acme/123"); got != "https://jobs.lever.co/acme/123" {
		t.Fatalf("unexpected relative resolution: %q", got)
	}
	if got := Absolutize(base, "https://other.example.com/x"); got != "https://other.example.com/x" {
		t.Fatalf("absolute href should pass through, got %q", got)
	}
	if got := Absolutize(base, "   "); got != "" {
		t.Fatalf("expected empty result for blank href, got %q", got)
	}
}

func TestPathSegments(t *testing.T) {
	got := PathSegments("https://jobs.lever.co/acme/8a3f2c1d/")
	want := []string{"acme", "8a3f2c1d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected segments: %v", got)
	}

	if got := PathSegments("https://jobs.lever.co/"); len(got) != 0 {
		t.Fatalf("expected no segments, got %v", got)
	}
}
