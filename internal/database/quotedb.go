package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/quotegrab/quotegrab/internal/model"
)

// QuoteDB provides SQLite-based storage for crawl runs and their
// quotes. It manages connection pooling and provides methods for CRUD
// operations.
//
// Design decision: We use a single database file for all runs rather
// than one file per run. The run_id column partitions the data, and a
// single file keeps cross-run queries (history, totals) trivial.
type QuoteDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures QuoteDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a QuoteDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are
// created. If false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*QuoteDB, error) {
	dbPath := filepath.Join(dbDir, "quotegrab.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	qdb := &QuoteDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := qdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return qdb, nil
}

// Close closes the database connection.
func (qdb *QuoteDB) Close() error {
	return qdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (qdb *QuoteDB) createTables() error {
	schema := `
	-- Runs store one row per crawl invocation
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		started_at DATETIME,
		finished_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		pages_fetched INTEGER DEFAULT 0,
		quotes_accepted INTEGER DEFAULT 0,
		failed_fetches INTEGER DEFAULT 0,
		seeds_crawled INTEGER DEFAULT 0,
		seeds_skipped INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_finished ON runs(finished_at);

	-- Quotes store the accepted records of every run
	CREATE TABLE IF NOT EXISTS quotes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		quote TEXT NOT NULL,
		author TEXT NOT NULL,
		tags TEXT,
		tag_count INTEGER DEFAULT 0,
		captured_at DATETIME,
		UNIQUE(run_id, fingerprint)
	);

	CREATE INDEX IF NOT EXISTS idx_quotes_run ON quotes(run_id);
	CREATE INDEX IF NOT EXISTS idx_quotes_author ON quotes(author);
	CREATE INDEX IF NOT EXISTS idx_quotes_fingerprint ON quotes(fingerprint);
	`

	_, err := qdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a finished run and all of its quotes in one
// transaction. A run ID can be saved only once.
func (qdb *QuoteDB) SaveRun(ctx context.Context, runID, source string, dataset *model.Dataset) error {
	tx, err := qdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (run_id, source, started_at, pages_fetched, quotes_accepted, failed_fetches, seeds_crawled, seeds_skipped)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID,
		source,
		dataset.Stats.StartedAt.UTC().Format(time.RFC3339),
		dataset.Stats.PagesFetched,
		dataset.Stats.QuotesAccepted,
		dataset.Stats.FailedFetches,
		dataset.Stats.SeedsCrawled,
		dataset.Stats.SeedsSkipped,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO quotes (run_id, fingerprint, quote, author, tags, tag_count, captured_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id, fingerprint) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare quote insert: %w", err)
	}
	defer stmt.Close()

	for _, q := range dataset.Quotes {
		tagsJSON, err := json.Marshal(q.Tags)
		if err != nil {
			return fmt.Errorf("failed to serialize tags: %w", err)
		}

		_, err = stmt.ExecContext(ctx,
			runID,
			q.Fingerprint(),
			q.Text,
			q.Author,
			string(tagsJSON),
			q.TagCount,
			q.CapturedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to insert quote: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// RunRecord summarizes one stored run.
type RunRecord struct {
	// RunID is the run's unique identifier.
	RunID string

	// Source names the crawled sites.
	Source string

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run was saved.
	FinishedAt time.Time

	// PagesFetched is the total pages fetched.
	PagesFetched int

	// QuotesAccepted is the total accepted records.
	QuotesAccepted int

	// FailedFetches is the total fetch failures.
	FailedFetches int

	// SeedsCrawled is the number of seeds attempted.
	SeedsCrawled int

	// SeedsSkipped is the number of seeds skipped by the robots gate.
	SeedsSkipped int
}

// GetRun retrieves one run's summary. Returns nil when the run does
// not exist.
func (qdb *QuoteDB) GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	query := `
	SELECT run_id, source, started_at, finished_at, pages_fetched, quotes_accepted, failed_fetches, seeds_crawled, seeds_skipped
	FROM runs
	WHERE run_id = ?
	`

	var rec RunRecord
	var startedAt, finishedAt string

	err := qdb.db.QueryRowContext(ctx, query, runID).Scan(
		&rec.RunID,
		&rec.Source,
		&startedAt,
		&finishedAt,
		&rec.PagesFetched,
		&rec.QuotesAccepted,
		&rec.FailedFetches,
		&rec.SeedsCrawled,
		&rec.SeedsSkipped,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	rec.StartedAt = parseTimestamp(startedAt)
	rec.FinishedAt = parseTimestamp(finishedAt)
	return &rec, nil
}

// ListRuns returns all stored runs, newest first.
func (qdb *QuoteDB) ListRuns(ctx context.Context) ([]RunRecord, error) {
	query := `
	SELECT run_id, source, started_at, finished_at, pages_fetched, quotes_accepted, failed_fetches, seeds_crawled, seeds_skipped
	FROM runs
	ORDER BY finished_at DESC
	`

	rows, err := qdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunRecord
	for rows.Next() {
		var rec RunRecord
		var startedAt, finishedAt string

		err := rows.Scan(
			&rec.RunID,
			&rec.Source,
			&startedAt,
			&finishedAt,
			&rec.PagesFetched,
			&rec.QuotesAccepted,
			&rec.FailedFetches,
			&rec.SeedsCrawled,
			&rec.SeedsSkipped,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		rec.StartedAt = parseTimestamp(startedAt)
		rec.FinishedAt = parseTimestamp(finishedAt)
		results = append(results, rec)
	}

	return results, rows.Err()
}

// QuotesByRun retrieves all quotes stored for a run, in insertion
// order.
func (qdb *QuoteDB) QuotesByRun(ctx context.Context, runID string) ([]model.Quote, error) {
	query := `
	SELECT quote, author, tags, tag_count, captured_at
	FROM quotes
	WHERE run_id = ?
	ORDER BY id
	`

	rows, err := qdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []model.Quote
	for rows.Next() {
		var q model.Quote
		var tagsJSON sql.NullString
		var capturedAt string

		if err := rows.Scan(&q.Text, &q.Author, &tagsJSON, &q.TagCount, &capturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}

		if tagsJSON.Valid && tagsJSON.String != "" {
			if err := json.Unmarshal([]byte(tagsJSON.String), &q.Tags); err != nil {
				q.Tags = nil
			}
		}
		q.CapturedAt = parseTimestamp(capturedAt)
		quotes = append(quotes, q)
	}

	return quotes, rows.Err()
}

// CountQuotes returns the total number of quotes across all runs.
func (qdb *QuoteDB) CountQuotes(ctx context.Context) (int, error) {
	var count int
	if err := qdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM quotes").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count quotes: %w", err)
	}
	return count, nil
}

// timestampFormats contains the timestamp formats that SQLite may
// return. The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
