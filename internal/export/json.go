package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/quotegrab/quotegrab/internal/model"
)

// JSONWriter outputs datasets in JSON format wrapped in a metadata
// envelope. This format is designed for tool integration.
//
// Design decision: We use standard encoding/json rather than a
// third-party JSON library because:
//  1. It's part of the standard library (no extra dependencies)
//  2. It's sufficient for our needs
//  3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	info RunInfo

	// indent enables pretty-printed JSON output.
	indent bool

	// now stamps the envelope's generation time, injectable for tests.
	now func() time.Time
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// WithJSONClock replaces the generation-time source.
func WithJSONClock(now func() time.Time) JSONWriterOption {
	return func(w *JSONWriter) {
		w.now = now
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, info RunInfo, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		info:       info,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Envelope is the JSON export structure: run metadata first, then the
// records.
//
// Design decision: We wrap the quotes rather than emitting a bare
// array because the metadata block lets consumers sanity-check a file
// (counts, run ID, version) without scanning the records.
type Envelope struct {
	// Metadata summarizes the run that produced the quotes.
	Metadata Metadata `json:"metadata"`

	// Quotes are the exported records.
	Quotes []model.Quote `json:"quotes"`
}

// Metadata is the envelope's run summary.
type Metadata struct {
	// Source names the crawled sites.
	Source string `json:"source"`

	// Version is the producing quotegrab version.
	Version string `json:"version"`

	// RunID ties this file to database rows from the same run.
	RunID string `json:"run_id"`

	// TotalQuotes is the number of exported records.
	TotalQuotes int `json:"total_quotes"`

	// UniqueAuthors is the number of distinct author strings.
	UniqueAuthors int `json:"unique_authors"`

	// TotalPages is the number of pages fetched during the run.
	TotalPages int `json:"total_pages"`

	// TotalTags is the sum of tag counts across records.
	TotalTags int `json:"total_tags"`

	// FailedRequests is the number of fetches that exhausted retries.
	FailedRequests int `json:"failed_requests"`

	// GeneratedAt is when this file was written.
	GeneratedAt time.Time `json:"generated_at"`

	// ElapsedSeconds is the run's wall time in seconds.
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// Write outputs the dataset wrapped in its metadata envelope.
func (w *JSONWriter) Write(dataset *model.Dataset) (int, error) {
	generatedAt := w.now()

	envelope := Envelope{
		Metadata: Metadata{
			Source:         w.info.Source,
			Version:        w.info.Version,
			RunID:          w.info.RunID,
			TotalQuotes:    len(dataset.Quotes),
			UniqueAuthors:  dataset.DistinctAuthors(),
			TotalPages:     dataset.Stats.PagesFetched,
			TotalTags:      dataset.TotalTags(),
			FailedRequests: dataset.Stats.FailedFetches,
			GeneratedAt:    generatedAt,
			ElapsedSeconds: dataset.Stats.Elapsed(generatedAt).Seconds(),
		},
		Quotes: dataset.Quotes,
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(envelope, "", "  ")
	} else {
		data, err = json.Marshal(envelope)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline for better terminal output.
	data = append(data, '\n')

	return w.output.Write(data)
}
