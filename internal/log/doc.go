// Package log provides logging for quotegrab, built on top of the
// standard slog package.
//
// This package extends slog to provide:
//   - Automatic truncation of oversized attribute values
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Truncation
//
// Crawl diagnostics naturally carry page-derived strings: URLs with
// long query strings, quote texts, raw selector dumps. The
// TruncateHandler bounds every string attribute so one pathological
// page cannot flood the terminal or the log file.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Info("page crawled", "url", pageURL, "accepted", n)
//	slog.SetDefault(logger)
package log
