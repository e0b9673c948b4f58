package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLinkValidatorIsLive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD request, got %s", r.Method)
		}
		if r.URL.Path == "/jobs/123" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	v := NewLinkValidator("test-agent")
	ctx := context.Background()

	if !v.IsLive(ctx, srv.URL+"/jobs/123") {
		t.Fatalf("expected live link")
	}
	if v.IsLive(ctx, srv.URL+"/jobs/999") {
		t.Fatalf("expected dead link for 404")
	}
	if v.IsLive(ctx, "http://127.0.0.1:1/never") {
		t.Fatalf("expected dead link for unreachable host")
	}
}
