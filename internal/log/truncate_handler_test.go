package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestTruncateHandlerBoundsLongValues verifies that oversized string
// attributes are cut and marked.
func TestTruncateHandlerBoundsLongValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewTruncateHandler(slog.NewTextHandler(&buf, nil), 16))

	logger.Info("fetched", "body", strings.Repeat("a", 100))

	out := buf.String()
	if !strings.Contains(out, truncationMarker) {
		t.Error("expected truncation marker in output")
	}
	if strings.Contains(out, strings.Repeat("a", 17)) {
		t.Error("expected value to be bounded to 16 characters")
	}
}

// TestTruncateHandlerKeepsShortValues verifies that values within the
// bound pass through untouched.
func TestTruncateHandlerKeepsShortValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewTruncateHandler(slog.NewTextHandler(&buf, nil), 64))

	logger.Info("page crawled", "url", "http://quotes.toscrape.com/page/2/")

	out := buf.String()
	if !strings.Contains(out, "http://quotes.toscrape.com/page/2/") {
		t.Error("expected short value untouched")
	}
	if strings.Contains(out, truncationMarker) {
		t.Error("expected no truncation marker for short values")
	}
}

// TestTruncateHandlerNonStringValues verifies that numbers and bools
// pass through.
func TestTruncateHandlerNonStringValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewTruncateHandler(slog.NewTextHandler(&buf, nil), 4))

	logger.Info("stats", "pages", 123456, "ok", true)

	out := buf.String()
	if !strings.Contains(out, "pages=123456") {
		t.Errorf("expected int attribute untouched, got %q", out)
	}
	if !strings.Contains(out, "ok=true") {
		t.Errorf("expected bool attribute untouched, got %q", out)
	}
}

// TestTruncateHandlerWithAttrs verifies truncation of attributes bound
// via With.
func TestTruncateHandlerWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewTruncateHandler(slog.NewTextHandler(&buf, nil), 8))

	logger.With("seed", strings.Repeat("b", 50)).Info("start")

	if !strings.Contains(buf.String(), truncationMarker) {
		t.Error("expected With-bound attribute to be truncated")
	}
}

// TestNewLoggerLevels verifies the verbose switch.
func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	t.Run("default level hides debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)
		logger.Debug("hidden")
		logger.Info("shown")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Error("expected debug suppressed without verbose")
		}
		if !strings.Contains(out, "shown") {
			t.Error("expected info logged")
		}
	})

	t.Run("verbose level shows debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)
		logger.Debug("visible")

		if !strings.Contains(buf.String(), "visible") {
			t.Error("expected debug logged in verbose mode")
		}
	})
}
