package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Fetcher retrieves the body of a single URL. Implementations own
// retries and timeouts; callers see only the final outcome.
type Fetcher interface {
	// Fetch returns the response body for url, or an error after all
	// attempts are exhausted. The context bounds the whole operation
	// including retries.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPStatusError reports a response with a non-success status code.
// It is a distinct type so callers can tell transport failures from
// server refusals.
type HTTPStatusError struct {
	// URL is the request URL.
	URL string

	// StatusCode is the HTTP status returned.
	StatusCode int
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// HTTPFetcher fetches pages over plain HTTP with retry and backoff.
type HTTPFetcher struct {
	// client is the HTTP client. Its Timeout bounds each attempt.
	client *http.Client

	// userAgent is the User-Agent header sent with every request.
	userAgent string

	// maxRetries is the total number of attempts per URL, first try
	// included.
	maxRetries int

	// retryDelay is the backoff base: attempt i waits retryDelay*2^i.
	retryDelay time.Duration

	// maxBodySize limits how much of a response body is read.
	maxBodySize int64
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithMaxRetries sets the total number of attempts per URL.
func WithMaxRetries(n int) FetcherOption {
	return func(f *HTTPFetcher) {
		f.maxRetries = n
	}
}

// WithRetryDelay sets the base delay doubled between attempts.
func WithRetryDelay(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		f.retryDelay = d
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *HTTPFetcher) {
		f.maxBodySize = size
	}
}

// NewHTTPFetcher creates an HTTPFetcher around the given client.
//
// Design decision: We require an external client because:
//  1. The caller owns the timeout and any transport tuning
//  2. Tests can pass a client pointed at an httptest server
//  3. Keeps this type focused on retry policy, not connection setup
func NewHTTPFetcher(client *http.Client, opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:      client,
		userAgent:   "quotegrab/1.0",
		maxRetries:  3,
		retryDelay:  2 * time.Second,
		maxBodySize: 10 * 1024 * 1024, // 10MB
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the URL, retrying failed attempts with exponential
// backoff. Every failure is retried the same way: a request that timed
// out and a 500 both get another chance, and a URL that fails every
// attempt counts as one failed fetch for the caller.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	operation := func() error {
		b, err := f.fetchOnce(ctx, url)
		if err != nil {
			return err
		}
		body = b
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.retryDelay
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxElapsedTime = 0

	retries := uint64(0)
	if f.maxRetries > 1 {
		retries = uint64(f.maxRetries - 1)
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, retries), ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s after %d attempts: %w", url, f.maxRetries, err)
	}
	return body, nil
}

// fetchOnce performs a single HTTP GET attempt.
func (f *HTTPFetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		// A malformed URL never becomes fetchable; don't retry it.
		return nil, backoff.Permanent(err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused for the retry.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, f.maxBodySize))
		return nil, &HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, err
	}
	return body, nil
}
