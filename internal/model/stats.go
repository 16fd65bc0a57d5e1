package model

import "time"

// SeedStats holds counters for one seed URL's pagination traversal.
// Only the pagination walker mutates these; callers treat them as
// read-only once the walk finishes.
type SeedStats struct {
	// PagesFetched is the number of pages successfully fetched.
	PagesFetched int `json:"pages_fetched"`

	// QuotesAccepted is the number of records that passed validation
	// and deduplication.
	QuotesAccepted int `json:"quotes_accepted"`

	// FailedFetches counts fetch operations that exhausted their retry
	// budget. The walker aborts a seed on the first such failure, so
	// this is at most 1 per seed.
	FailedFetches int `json:"failed_fetches"`
}

// RunStats accumulates statistics across all seed URLs in one run.
type RunStats struct {
	// StartedAt is the wall-clock time the run began.
	StartedAt time.Time `json:"started_at"`

	// PagesFetched is the total number of pages fetched across seeds.
	PagesFetched int `json:"pages_fetched"`

	// QuotesAccepted is the total number of accepted records.
	QuotesAccepted int `json:"quotes_accepted"`

	// FailedFetches is the total number of fetch failures.
	FailedFetches int `json:"failed_fetches"`

	// SeedsCrawled is the number of seeds whose traversal was started.
	SeedsCrawled int `json:"seeds_crawled"`

	// SeedsSkipped is the number of seeds skipped by the robots gate.
	SeedsSkipped int `json:"seeds_skipped"`
}

// Merge folds one seed's counters into the run totals.
func (r *RunStats) Merge(s SeedStats) {
	r.PagesFetched += s.PagesFetched
	r.QuotesAccepted += s.QuotesAccepted
	r.FailedFetches += s.FailedFetches
}

// Elapsed returns the wall time between the run start and now.
// It returns zero when the run never started.
func (r *RunStats) Elapsed(now time.Time) time.Duration {
	if r.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(r.StartedAt)
}
