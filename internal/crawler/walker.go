package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/quotegrab/quotegrab/internal/extract"
	"github.com/quotegrab/quotegrab/internal/model"
)

// Walker follows one seed's pagination chain, extracting quotes from
// each page. A Walker is single-use: create a fresh one per seed.
type Walker struct {
	// fetcher retrieves page bodies, retries included.
	fetcher Fetcher

	// extractor turns page bodies into quote records.
	extractor *extract.Extractor

	// deduper filters records already seen. Sharing one deduper
	// across walkers widens dedup scope to the whole run.
	deduper *extract.Deduper

	// delay is the politeness pause before every page after the first.
	delay time.Duration

	// maxPages caps pages fetched per seed. 0 means unlimited.
	maxPages int

	// visited tracks normalized page URLs to break pagination cycles.
	visited map[string]bool

	logger *slog.Logger

	// pageHook, when set, is called after each successful page fetch.
	pageHook func(pageURL string)
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// WithWalkDelay sets the pause between consecutive page requests.
func WithWalkDelay(d time.Duration) WalkerOption {
	return func(w *Walker) {
		w.delay = d
	}
}

// WithWalkMaxPages caps the number of pages fetched from one seed.
// 0 removes the cap.
func WithWalkMaxPages(n int) WalkerOption {
	return func(w *Walker) {
		w.maxPages = n
	}
}

// WithWalkLogger sets the logger for per-page diagnostics.
func WithWalkLogger(logger *slog.Logger) WalkerOption {
	return func(w *Walker) {
		w.logger = logger
	}
}

// WithPageHook registers a callback invoked after each page fetch,
// used for progress reporting.
func WithPageHook(hook func(pageURL string)) WalkerOption {
	return func(w *Walker) {
		w.pageHook = hook
	}
}

// NewWalker creates a Walker over the given fetcher, extractor, and
// deduper.
func NewWalker(fetcher Fetcher, extractor *extract.Extractor, deduper *extract.Deduper, opts ...WalkerOption) *Walker {
	w := &Walker{
		fetcher:   fetcher,
		extractor: extractor,
		deduper:   deduper,
		delay:     1 * time.Second,
		maxPages:  200,
		visited:   make(map[string]bool),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WalkResult holds everything collected from one seed.
type WalkResult struct {
	// Quotes are the accepted records in page order.
	Quotes []model.Quote

	// Stats counts pages, acceptances, and failures for this seed.
	Stats model.SeedStats
}

// Walk follows the pagination chain starting at seedURL. It stops when
// a page has no next link, when the next link points at a page already
// visited, when the page cap is reached, or when a fetch fails after
// all retries.
//
// Design decision: Cancellation returns the partial result with a nil
// error because:
//  1. Pages already fetched are real data the user paid wall time for
//  2. Ctrl-C mid-run should still produce export files
//  3. The caller can inspect ctx.Err() when it needs to distinguish
//     "chain ended" from "user stopped us"
func (w *Walker) Walk(ctx context.Context, seedURL string) (*WalkResult, error) {
	base, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL %q: %w", seedURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme in seed URL %q", seedURL)
	}

	result := &WalkResult{}
	current := base.String()

	for current != "" {
		if ctx.Err() != nil {
			w.logger.Info("crawl cancelled, returning partial result", "seed", seedURL)
			return result, nil
		}

		key := normalizeURL(current)
		if w.visited[key] {
			w.logger.Debug("pagination cycle detected, stopping", "url", current)
			break
		}
		w.visited[key] = true

		if w.maxPages > 0 && result.Stats.PagesFetched >= w.maxPages {
			w.logger.Warn("page cap reached, stopping seed", "seed", seedURL, "pages", result.Stats.PagesFetched)
			break
		}

		// Politeness delay before every page after the first.
		if w.delay > 0 && result.Stats.PagesFetched > 0 {
			select {
			case <-ctx.Done():
				return result, nil
			case <-time.After(w.delay):
			}
		}

		body, err := w.fetcher.Fetch(ctx, current)
		if err != nil {
			if ctx.Err() != nil {
				return result, nil
			}
			// One exhausted URL is one failure, however many retries
			// it took. The rest of the chain is unreachable without
			// this page's next link, so the seed ends here.
			result.Stats.FailedFetches++
			w.logger.Warn("giving up on page, ending seed", "url", current, "error", err)
			break
		}

		result.Stats.PagesFetched++
		if w.pageHook != nil {
			w.pageHook(current)
		}

		page, err := w.extractor.ExtractPage(current, body)
		if err != nil {
			w.logger.Warn("failed to parse page, ending seed", "url", current, "error", err)
			break
		}

		for _, q := range page.Quotes {
			if w.deduper.IsNew(q) {
				result.Quotes = append(result.Quotes, q)
				result.Stats.QuotesAccepted++
			}
		}

		w.logger.Debug("page crawled",
			"url", current,
			"containers", page.Containers,
			"accepted", result.Stats.QuotesAccepted,
		)

		current = resolveNext(current, page.NextURL)
	}

	return result, nil
}

// resolveNext resolves a possibly-relative next link against the page
// it was found on. Document-relative hrefs ("p3.html") move within the
// current page's directory, so the seed URL is the wrong base once the
// chain has descended a level. Returns the empty string when there is
// no usable next page.
func resolveNext(pageURL, next string) string {
	if next == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(next)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// normalizeURL normalizes a URL for visited-set membership.
//
// Design decision: We normalize URLs because:
//  1. Same page can have different URL representations
//  2. Fragment (#anchor) doesn't change content
//  3. An empty path and "/" address the same page
func normalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}
