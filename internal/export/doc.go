// Package export writes crawl datasets in machine-readable and
// human-readable formats.
//
// # Formats
//
//   - JSON: the full dataset wrapped in an envelope with run metadata,
//     for tool integration
//   - CSV: one row per quote, for spreadsheets
//   - Markdown: a summary report with statistics tables and a tag
//     distribution chart, for sharing
//
// All writers implement the Writer interface and write to an io.Writer
// the caller provides, so the same code serves files, stdout, and test
// buffers.
package export
