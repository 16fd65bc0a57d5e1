package log

import (
	"context"
	"io"
	"log/slog"
)

// DefaultMaxValueLen is the length string attribute values are bounded
// to before the truncation marker is appended.
const DefaultMaxValueLen = 256

// truncationMarker is appended to values that were cut.
const truncationMarker = "...(truncated)"

// TruncateHandler wraps an slog.Handler and bounds the length of
// string attribute values. It intercepts log records and truncates
// oversized values before passing them to the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom
// logger because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites stay clean: they log what they have, the handler
//     enforces the bound
type TruncateHandler struct {
	// handler is the underlying slog handler receiving bounded records.
	handler slog.Handler

	// maxLen is the maximum string value length, marker excluded.
	maxLen int
}

// NewTruncateHandler creates a TruncateHandler wrapping the given
// handler. If handler is nil, the returned TruncateHandler wraps
// slog.Default().Handler(). If maxLen is not positive, the default
// bound is used.
func NewTruncateHandler(handler slog.Handler, maxLen int) *TruncateHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxValueLen
	}
	return &TruncateHandler{handler: handler, maxLen: maxLen}
}

// Enabled reports whether the handler handles records at the given
// level. It delegates to the underlying handler.
func (h *TruncateHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle truncates the record's attributes and passes it to the
// underlying handler.
func (h *TruncateHandler) Handle(ctx context.Context, r slog.Record) error {
	bounded := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		bounded.AddAttrs(h.truncateAttr(a))
		return true
	})

	return h.handler.Handle(ctx, bounded)
}

// WithAttrs returns a new handler with the given attributes added,
// truncated first.
func (h *TruncateHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bounded := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		bounded[i] = h.truncateAttr(a)
	}
	return &TruncateHandler{handler: h.handler.WithAttrs(bounded), maxLen: h.maxLen}
}

// WithGroup returns a new handler with the given group name.
func (h *TruncateHandler) WithGroup(name string) slog.Handler {
	return &TruncateHandler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

// truncateAttr bounds a single attribute, recursively handling groups.
func (h *TruncateHandler) truncateAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		bounded := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			bounded[i] = h.truncateAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(bounded...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	s := a.Value.String()
	if len(s) <= h.maxLen {
		return a
	}
	return slog.String(a.Key, s[:h.maxLen]+truncationMarker)
}

// NewLogger creates a logger writing human-readable output to w.
// Verbose mode lowers the level to Debug; otherwise Info and above
// are logged. String attribute values are bounded.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	text := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewTruncateHandler(text, DefaultMaxValueLen))
}
