package extract

import (
	"testing"
	"time"

	"github.com/quotegrab/quotegrab/internal/model"
)

// TestDeduperIsNew verifies first-sight admission and idempotent
// rejection afterwards.
func TestDeduperIsNew(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	q := model.NewQuote("To be, or not to be.", "William Shakespeare", nil, at)

	d := NewDeduper()

	if !d.IsNew(q) {
		t.Error("expected first sight to be new")
	}
	if d.IsNew(q) {
		t.Error("expected second sight to be a duplicate")
	}
	if d.IsNew(q) {
		t.Error("expected repeated checks to stay duplicates")
	}
	if d.Len() != 1 {
		t.Errorf("expected 1 registered fingerprint, got %d", d.Len())
	}
}

// TestDeduperNormalizedCollision verifies that case and whitespace
// variants of the same quote collapse to one record.
func TestDeduperNormalizedCollision(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	d := NewDeduper()

	if !d.IsNew(model.NewQuote("Stay hungry, stay foolish.", "Steve Jobs", nil, at)) {
		t.Error("expected original to be new")
	}
	if d.IsNew(model.NewQuote("  STAY HUNGRY, STAY FOOLISH.  ", "steve jobs", nil, at)) {
		t.Error("expected case/whitespace variant to be a duplicate")
	}
}

// TestDeduperDistinctQuotes verifies that different texts or authors do
// not collide.
func TestDeduperDistinctQuotes(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	d := NewDeduper()

	if !d.IsNew(model.NewQuote("Less is more.", "Mies van der Rohe", nil, at)) {
		t.Error("expected first quote to be new")
	}
	if !d.IsNew(model.NewQuote("Less is more.", "Robert Browning", nil, at)) {
		t.Error("expected same text with different author to be new")
	}
	if !d.IsNew(model.NewQuote("More is more.", "Mies van der Rohe", nil, at)) {
		t.Error("expected different text with same author to be new")
	}
	if d.Len() != 3 {
		t.Errorf("expected 3 registered fingerprints, got %d", d.Len())
	}
}

// TestDeduperIgnoresTags verifies that tags play no part in identity:
// the same quote carrying different tags is still one quote.
func TestDeduperIgnoresTags(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	d := NewDeduper()

	if !d.IsNew(model.NewQuote("Simplicity is the ultimate sophistication.", "Leonardo da Vinci", []string{"design"}, at)) {
		t.Error("expected first sight to be new")
	}
	if d.IsNew(model.NewQuote("Simplicity is the ultimate sophistication.", "Leonardo da Vinci", []string{"art", "life"}, at)) {
		t.Error("expected tag variant to be a duplicate")
	}
}
