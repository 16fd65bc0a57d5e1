// Package crawler fetches paginated quote sites one page at a time.
//
// # Architecture
//
// The package is designed around the Walker type, which follows a
// seed URL's next-page chain until the chain ends, a page repeats, or
// the page cap is hit. Fetching is behind the Fetcher interface so
// tests can run against httptest servers and the walker stays ignorant
// of transport details.
//
// Design decision: We crawl strictly sequentially rather than with a
// worker pool because:
//  1. Pagination is an inherently ordered chain: page N names page N+1
//  2. One in-flight request is the politest possible footprint
//  3. Deterministic page order makes runs reproducible and debuggable
//
// # Components
//
//   - Fetcher: HTTP transport with retry, timeout, and size limits
//   - RobotsGate: robots.txt permission checks per host
//   - Walker: the pagination loop tying fetch and extract together
//
// # Politeness
//
// The walker is designed to be polite:
//   - Respects robots.txt (configurable)
//   - Delays between page requests (configurable)
//   - Exponential backoff between retries of a failed request
//   - Hard cap on pages per seed to stop runaway chains
package crawler
