package model

import (
	"testing"
	"time"
)

// TestRunStatsMerge verifies that seed counters fold into run totals.
func TestRunStatsMerge(t *testing.T) {
	t.Parallel()

	run := RunStats{StartedAt: time.Now()}
	run.Merge(SeedStats{PagesFetched: 3, QuotesAccepted: 20, FailedFetches: 0})
	run.Merge(SeedStats{PagesFetched: 1, QuotesAccepted: 0, FailedFetches: 1})

	if run.PagesFetched != 4 {
		t.Errorf("expected 4 pages fetched, got %d", run.PagesFetched)
	}
	if run.QuotesAccepted != 20 {
		t.Errorf("expected 20 quotes accepted, got %d", run.QuotesAccepted)
	}
	if run.FailedFetches != 1 {
		t.Errorf("expected 1 failed fetch, got %d", run.FailedFetches)
	}
}

// TestRunStatsElapsed verifies elapsed-time computation.
func TestRunStatsElapsed(t *testing.T) {
	t.Parallel()

	t.Run("zero when never started", func(t *testing.T) {
		t.Parallel()

		var run RunStats
		if got := run.Elapsed(time.Now()); got != 0 {
			t.Errorf("expected zero elapsed, got %v", got)
		}
	})

	t.Run("difference between start and now", func(t *testing.T) {
		t.Parallel()

		start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		run := RunStats{StartedAt: start}
		if got := run.Elapsed(start.Add(90 * time.Second)); got != 90*time.Second {
			t.Errorf("expected 90s elapsed, got %v", got)
		}
	})
}

// TestDataset verifies derived aggregates over the cumulative record list.
func TestDataset(t *testing.T) {
	t.Parallel()

	now := time.Now()
	ds := NewDataset()

	if !ds.Empty() {
		t.Error("expected new dataset to be empty")
	}

	ds.Append(
		NewQuote("first quote text", "Ada Lovelace", []string{"science", "history"}, now),
		NewQuote("second quote text", "Alan Turing", []string{"science"}, now),
		NewQuote("third quote text", "Ada Lovelace", nil, now),
	)

	if ds.Empty() {
		t.Error("expected dataset with records to be non-empty")
	}
	if got := ds.DistinctAuthors(); got != 2 {
		t.Errorf("expected 2 distinct authors, got %d", got)
	}
	if got := ds.TotalTags(); got != 3 {
		t.Errorf("expected 3 total tags, got %d", got)
	}
}
