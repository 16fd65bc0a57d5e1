// Package model defines the core data structures shared across the
// application: the Quote record, crawl statistics, and the cumulative
// Dataset produced by a run.
//
// # Design Philosophy
//
// Models are plain data structures with minimal behavior. The only
// methods they carry are derived-value computations (fingerprints,
// aggregate counts) that belong to the data itself rather than to any
// single consumer. This keeps the package dependency-free within the
// project: every other internal package may import model, and model
// imports none of them.
//
// # Immutability
//
// A Quote is never mutated after construction. The extractor builds it,
// the deduplicator reads its fingerprint, and the exporters serialize
// it. Statistics structs are the one exception: they are mutated by the
// walker and the aggregator, and read-only for everyone else.
package model
