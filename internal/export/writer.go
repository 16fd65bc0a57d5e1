package export

import (
	"io"

	"github.com/google/uuid"

	"github.com/quotegrab/quotegrab/internal/model"
)

// Writer defines the interface for dataset output.
// Implementations write crawl results in various formats.
//
// Design decision: We use an interface to allow different output
// formats and destinations. This enables writing to files, stdout, or
// test buffers with the same API.
type Writer interface {
	// Write outputs the dataset to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(dataset *model.Dataset) (int, error)
}

// RunInfo carries run-level context that exporters embed alongside the
// data itself.
type RunInfo struct {
	// Source names where the quotes came from, typically the seed
	// URLs joined with commas.
	Source string

	// Version is the quotegrab version that produced the dataset.
	Version string

	// RunID uniquely identifies this crawl run across export files
	// and database rows.
	RunID string
}

// NewRunInfo builds a RunInfo, generating a fresh run ID when none is
// given.
func NewRunInfo(source, version, runID string) RunInfo {
	if runID == "" {
		runID = uuid.NewString()
	}
	return RunInfo{Source: source, Version: version, RunID: runID}
}

// MultiWriter writes to multiple Writers simultaneously.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different from
// io.Writer - we write datasets, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the dataset to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(dataset *model.Dataset) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(dataset)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for dataset writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
