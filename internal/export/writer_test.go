package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/quotegrab/quotegrab/internal/model"
)

// testDataset builds a small dataset with known statistics.
func testDataset() *model.Dataset {
	captured := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	d := model.NewDataset()
	d.Stats.StartedAt = captured.Add(-90 * time.Second)
	d.Stats.PagesFetched = 3
	d.Stats.QuotesAccepted = 2
	d.Stats.FailedFetches = 1
	d.Stats.SeedsCrawled = 1
	d.Append(
		model.NewQuote("A quoted line with a comma, even.", "Ada Lovelace", []string{"computing", "history"}, captured),
		model.NewQuote("Another line entirely.", "Alan Turing", []string{"computing"}, captured),
	)
	return d
}

// fixedNow returns a deterministic generation time.
func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

// TestJSONWriter verifies the envelope structure and metadata counts.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	info := NewRunInfo("http://quotes.toscrape.com", "1.0.0", "run-123")
	w := NewJSONWriter(&buf, info, WithJSONClock(fixedNow))

	n, err := w.Write(testDataset())
	if err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
	}

	var envelope Envelope
	if err := json.Unmarshal(buf.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	meta := envelope.Metadata
	if meta.RunID != "run-123" {
		t.Errorf("expected run ID run-123, got %q", meta.RunID)
	}
	if meta.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", meta.Version)
	}
	if meta.TotalQuotes != 2 {
		t.Errorf("expected 2 total quotes, got %d", meta.TotalQuotes)
	}
	if meta.UniqueAuthors != 2 {
		t.Errorf("expected 2 unique authors, got %d", meta.UniqueAuthors)
	}
	if meta.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", meta.TotalPages)
	}
	if meta.TotalTags != 3 {
		t.Errorf("expected 3 total tags, got %d", meta.TotalTags)
	}
	if meta.FailedRequests != 1 {
		t.Errorf("expected 1 failed request, got %d", meta.FailedRequests)
	}
	if meta.ElapsedSeconds != 90 {
		t.Errorf("expected 90s elapsed, got %v", meta.ElapsedSeconds)
	}
	if len(envelope.Quotes) != 2 {
		t.Errorf("expected 2 quotes, got %d", len(envelope.Quotes))
	}
}

// TestNewRunInfoGeneratesID verifies that a missing run ID is filled in.
func TestNewRunInfoGeneratesID(t *testing.T) {
	t.Parallel()

	info := NewRunInfo("src", "1.0.0", "")
	if info.RunID == "" {
		t.Error("expected a generated run ID")
	}

	other := NewRunInfo("src", "1.0.0", "")
	if info.RunID == other.RunID {
		t.Error("expected distinct generated run IDs")
	}
}

// TestCSVWriter verifies the header, row contents, and quoting of
// embedded commas.
func TestCSVWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewCSVWriter(&buf)

	n, err := w.Write(testDataset())
	if err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	if records[0][0] != "ID" || records[0][1] != "Quote" || records[0][5] != "Captured At" {
		t.Errorf("unexpected header: %v", records[0])
	}

	first := records[1]
	if first[0] != "1" {
		t.Errorf("expected 1-based row ID, got %q", first[0])
	}
	if first[1] != "A quoted line with a comma, even." {
		t.Errorf("expected comma preserved through quoting, got %q", first[1])
	}
	if first[3] != "computing, history" {
		t.Errorf("expected joined tags, got %q", first[3])
	}
	if first[4] != "2" {
		t.Errorf("expected tag count 2, got %q", first[4])
	}
}

// TestCSVWriterEmptyDataset verifies that an empty dataset still gets
// a header row.
func TestCSVWriterEmptyDataset(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewCSVWriter(&buf).Write(model.NewDataset()); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected header only, got %d records", len(records))
	}
}

// TestMarkdownWriter verifies the report sections.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	info := NewRunInfo("http://quotes.toscrape.com", "1.0.0", "run-123")
	w := NewMarkdownWriter(&buf, info, WithMarkdownClock(fixedNow))

	if _, err := w.Write(testDataset()); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Quote Collection Report",
		"## Top Authors",
		"## Tags",
		"## Quotes",
		"Ada Lovelace",
		"> A quoted line with a comma, even.",
		"mermaid",
		"run-123",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected report to contain %q", want)
		}
	}
}

// TestMarkdownWriterEmptyDataset verifies the no-records path.
func TestMarkdownWriterEmptyDataset(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	info := NewRunInfo("http://example.com", "1.0.0", "run-empty")
	w := NewMarkdownWriter(&buf, info, WithMarkdownClock(fixedNow))

	if _, err := w.Write(model.NewDataset()); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "No records found") {
		t.Error("expected the no-records tip")
	}
	if strings.Contains(out, "## Quotes") {
		t.Error("expected no quotes section for an empty dataset")
	}
}

// TestMultiWriter verifies fan-out across formats.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var jsonBuf, csvBuf bytes.Buffer
	info := NewRunInfo("src", "1.0.0", "run-multi")

	mw := NewMultiWriter(
		NewJSONWriter(&jsonBuf, info, WithJSONClock(fixedNow)),
		NewCSVWriter(&csvBuf),
	)

	n, err := mw.Write(testDataset())
	if err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if n != jsonBuf.Len()+csvBuf.Len() {
		t.Errorf("expected total byte count across writers, got %d", n)
	}
	if jsonBuf.Len() == 0 || csvBuf.Len() == 0 {
		t.Error("expected both writers to receive output")
	}
}
