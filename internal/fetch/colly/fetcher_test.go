package collyfetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Haston00/nc-construction-data/internal/scraper"
)

func TestGetterFetchesPage(t *testing.T) {
	t.Parallel()

	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.UserAgent()
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`<html><body><a href="bid.pdf">Bid Tabulation</a></body></html>`))
	}))
	defer server.Close()

	g := New(Config{UserAgent: "coverage-agent", Timeout: 5 * time.Second})
	resp, err := g.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected fetch error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(resp.Body) == 0 {
		t.Fatal("expected a body")
	}
	if gotAgent != "coverage-agent" {
		t.Fatalf("expected user agent override, got %q", gotAgent)
	}
}

func TestGetterErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := New(Config{Timeout: 5 * time.Second})
	if _, err := g.Get(context.Background(), server.URL); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}

func TestGetterAllowsRevisit(t *testing.T) {
	t.Parallel()

	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	g := New(Config{Timeout: 5 * time.Second})
	for i := 0; i < 2; i++ {
		if _, err := g.Get(context.Background(), server.URL); err != nil {
			t.Fatalf("fetch %d failed: %v", i+1, err)
		}
	}
	if hits != 2 {
		t.Fatalf("expected 2 hits, got %d; retried URLs must not be deduped", hits)
	}
}

func TestGetterCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New(Config{Timeout: 5 * time.Second})
	if _, err := g.Get(ctx, "https://127.0.0.1:1/never"); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}

func TestBuildCollectorDefaults(t *testing.T) {
	t.Parallel()

	g := New(Config{UserAgent: "agent", RespectRobots: true, MaxBodyBytes: 42})
	var result scraper.FetchResponse
	var fetchErr error

	collector := g.buildCollector(time.Unix(0, 0), &result, &fetchErr)
	if collector.UserAgent != "agent" {
		t.Fatalf("expected user agent override, got %q", collector.UserAgent)
	}
	if collector.IgnoreRobotsTxt {
		t.Fatal("expected robots txt to be respected")
	}
	if collector.MaxBodySize != 42 {
		t.Fatalf("expected body cap 42, got %d", collector.MaxBodySize)
	}
	if !collector.AllowURLRevisit {
		t.Fatal("expected revisits to stay allowed on clones")
	}
}
