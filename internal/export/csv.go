package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/quotegrab/quotegrab/internal/model"
)

// csvHeader is the column layout of CSV exports.
var csvHeader = []string{"ID", "Quote", "Author", "Tags", "Tag Count", "Captured At"}

// CSVWriter outputs datasets as CSV, one row per quote.
//
// Design decision: The ID column is a 1-based row number, not the
// content fingerprint, because spreadsheet users want a short sortable
// key and the fingerprint is reproducible from the row anyway.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the dataset as CSV. The byte count is derived from the
// rows written, since encoding/csv does not report it.
func (w *CSVWriter) Write(dataset *model.Dataset) (int, error) {
	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	if err := cw.Write(csvHeader); err != nil {
		return counter.n, err
	}

	for i, q := range dataset.Quotes {
		row := []string{
			strconv.Itoa(i + 1),
			q.Text,
			q.Author,
			strings.Join(q.Tags, ", "),
			strconv.Itoa(q.TagCount),
			q.CapturedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return counter.n, err
		}
	}

	cw.Flush()
	return counter.n, cw.Error()
}

// countingWriter counts bytes passing through to the underlying writer.
type countingWriter struct {
	w io.Writer
	n int
}

// Write implements io.Writer.
func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
