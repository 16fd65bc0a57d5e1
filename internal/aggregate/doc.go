// Package aggregate runs the crawl across all seed URLs and merges the
// results into one dataset.
//
// The Aggregator owns run-level policy: the robots gate, the
// per-seed-versus-global deduplication scope, failure isolation (one
// broken seed never stops the run), and the pause between seeds. The
// per-seed pagination mechanics live in the crawler package.
package aggregate
