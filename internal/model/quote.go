package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Quote represents a single extracted quote record.
// Once built by the extractor it is immutable.
type Quote struct {
	// Text is the quote body, trimmed of surrounding whitespace.
	Text string `json:"quote"`

	// Author is the attributed author. The extractor substitutes
	// "Unknown" when no author selector yields text, so this field
	// is never empty.
	Author string `json:"author"`

	// Tags are the tag strings found on the quote's container, in
	// document order. Duplicate tag texts are preserved; only whole
	// records are deduplicated.
	Tags []string `json:"tags"`

	// TagCount equals len(Tags). It is stored explicitly so that
	// serialized records carry the count without recomputation.
	TagCount int `json:"tags_count"`

	// CapturedAt is the time the record was extracted.
	CapturedAt time.Time `json:"timestamp"`
}

// UnknownAuthor is the placeholder used when no author selector matches.
const UnknownAuthor = "Unknown"

// NewQuote builds an immutable Quote with the capture timestamp and
// the derived tag count filled in.
func NewQuote(text, author string, tags []string, capturedAt time.Time) Quote {
	return Quote{
		Text:       strings.TrimSpace(text),
		Author:     strings.TrimSpace(author),
		Tags:       tags,
		TagCount:   len(tags),
		CapturedAt: capturedAt,
	}
}

// Fingerprint returns a stable content hash identifying this quote.
// Two quotes that differ only in letter case, surrounding whitespace,
// or Unicode normalization form produce the same fingerprint.
//
// Design decision: We hash the normalized text and author joined by a
// separator rather than hashing fields independently because:
//  1. A single digest is what the dedup index stores and compares
//  2. The separator prevents ambiguity between ("ab","c") and ("a","bc")
//  3. SHA-256 matches how page content is hashed elsewhere in the
//     project, keeping one hash family throughout
func (q Quote) Fingerprint() string {
	content := canonical(q.Text) + "|" + canonical(q.Author)
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// canonical lowercases, trims, and NFC-normalizes a string so that
// visually identical inputs hash identically.
func canonical(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}

// ValidateText reports whether a candidate quote text passes content
// validation. The rules, in order:
//
//  1. Length must be within [minLen, maxLen] (inclusive on both ends).
//  2. Text consisting solely of digits is rejected.
//  3. Text whose ratio of symbol characters (non-alphanumeric,
//     non-whitespace) exceeds 0.3 of its length is rejected.
//
// Length and the symbol ratio are measured in characters (runes), so
// multibyte scripts get the same length window and ratio as ASCII.
func ValidateText(text string, minLen, maxLen int) bool {
	length := utf8.RuneCountInString(text)
	if length < minLen || length > maxLen {
		return false
	}
	if isAllDigits(text) {
		return false
	}

	symbols := 0
	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) && r != '_' {
			symbols++
		}
	}
	return float64(symbols) <= float64(length)*0.3
}

// isAllDigits reports whether s is non-empty and contains only digits.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
