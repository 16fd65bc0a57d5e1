// Package database provides SQLite-based storage for quotegrab.
//
// This package implements the QuoteDB, which stores:
//   - Run records with merged crawl statistics
//   - Accepted quote records, keyed by content fingerprint per run
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of
// other databases because:
//  1. No external dependencies - the database is a single file
//  2. CGO-free implementation allows easy cross-compilation
//  3. Sufficient performance for our use case
//  4. WAL mode provides good concurrent read performance
package database
