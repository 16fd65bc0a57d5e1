package crawler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// RobotsGate answers whether a URL may be crawled according to the
// host's robots.txt. Rules are fetched once per host and cached for
// the lifetime of the gate.
//
// Design decision: Failures open the gate rather than close it:
//  1. A missing robots.txt conventionally means "no restrictions"
//  2. A host that cannot serve robots.txt should not silently hide
//     content the operator explicitly asked to crawl
//  3. robotstxt.FromStatusAndBytes encodes the same convention for
//     4xx statuses, so the library and the gate agree
type RobotsGate struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	cache map[string]*robotstxt.Group

	logger *slog.Logger
}

// NewRobotsGate creates a RobotsGate using the given client for
// robots.txt fetches.
func NewRobotsGate(client *http.Client, userAgent string, logger *slog.Logger) *RobotsGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &RobotsGate{
		client:    client,
		userAgent: userAgent,
		cache:     make(map[string]*robotstxt.Group),
		logger:    logger,
	}
}

// Allowed reports whether the URL may be fetched under the host's
// robots.txt rules for the gate's user agent.
func (g *RobotsGate) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}

	group := g.group(ctx, u)
	if group == nil {
		return true
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	return group.Test(path)
}

// group returns the cached rule group for the URL's host, fetching
// robots.txt on first sight. A nil group means "no restrictions".
func (g *RobotsGate) group(ctx context.Context, u *url.URL) *robotstxt.Group {
	key := u.Scheme + "://" + u.Host

	g.mu.Lock()
	defer g.mu.Unlock()

	if group, ok := g.cache[key]; ok {
		return group
	}

	group := g.fetchGroup(ctx, key)
	g.cache[key] = group
	return group
}

// fetchGroup retrieves and parses robots.txt for a host. Any failure
// along the way yields a nil (permissive) group.
func (g *RobotsGate) fetchGroup(ctx context.Context, base string) *robotstxt.Group {
	robotsURL := base + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Debug("robots.txt unreachable, allowing crawl", "url", robotsURL, "error", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil
	}

	robots, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		g.logger.Debug("robots.txt unparsable, allowing crawl", "url", robotsURL, "error", err)
		return nil
	}
	return robots.FindGroup(g.userAgent)
}
