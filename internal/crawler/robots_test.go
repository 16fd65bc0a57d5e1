package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// TestRobotsGateAllowed covers allow and disallow decisions against a
// served robots.txt.
func TestRobotsGateAllowed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		_, _ = w.Write([]byte("page"))
	}))
	defer server.Close()

	gate := NewRobotsGate(server.Client(), "quotegrab/1.0", nil)

	if !gate.Allowed(context.Background(), server.URL+"/quotes/") {
		t.Error("expected /quotes/ to be allowed")
	}
	if gate.Allowed(context.Background(), server.URL+"/private/secrets") {
		t.Error("expected /private/ to be disallowed")
	}
}

// TestRobotsGateMissingFile verifies that a 404 robots.txt opens the
// gate.
func TestRobotsGateMissingFile(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	gate := NewRobotsGate(server.Client(), "quotegrab/1.0", nil)

	if !gate.Allowed(context.Background(), server.URL+"/anything") {
		t.Error("expected missing robots.txt to allow everything")
	}
}

// TestRobotsGateUnreachableHost verifies that a fetch failure opens
// the gate rather than blocking the crawl.
func TestRobotsGateUnreachableHost(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // immediately unreachable

	gate := NewRobotsGate(http.DefaultClient, "quotegrab/1.0", nil)

	if !gate.Allowed(context.Background(), server.URL+"/page") {
		t.Error("expected unreachable robots.txt to allow the crawl")
	}
}

// TestRobotsGateCachesPerHost verifies that robots.txt is fetched once
// per host, not once per URL.
func TestRobotsGateCachesPerHost(t *testing.T) {
	t.Parallel()

	var robotsHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsHits.Add(1)
			_, _ = w.Write([]byte("User-agent: *\nDisallow:\n"))
		}
	}))
	defer server.Close()

	gate := NewRobotsGate(server.Client(), "quotegrab/1.0", nil)

	for i := 0; i < 5; i++ {
		gate.Allowed(context.Background(), server.URL+"/page")
	}
	if robotsHits.Load() != 1 {
		t.Errorf("expected 1 robots.txt fetch, got %d", robotsHits.Load())
	}
}

// TestRobotsGateInvalidURL verifies that junk input never blocks.
func TestRobotsGateInvalidURL(t *testing.T) {
	t.Parallel()

	gate := NewRobotsGate(http.DefaultClient, "quotegrab/1.0", nil)

	if !gate.Allowed(context.Background(), "::not a url::") {
		t.Error("expected unparsable URL to be allowed through")
	}
}
