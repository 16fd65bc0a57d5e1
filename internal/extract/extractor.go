package extract

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/quotegrab/quotegrab/internal/config"
	"github.com/quotegrab/quotegrab/internal/model"
)

// Extractor turns fetched HTML documents into validated quote records
// using an ordered-candidate selector set.
type Extractor struct {
	selectors config.SelectorSet
	minLen    int
	maxLen    int
	logger    *slog.Logger

	// now is the capture-time source, injectable for tests.
	now func() time.Time
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithClock replaces the capture-time source. Used by tests to obtain
// deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// WithLogger sets the logger for per-page diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an Extractor bound to a selector set and the
// configured quote-length bounds.
func NewExtractor(selectors config.SelectorSet, minLen, maxLen int, opts ...Option) *Extractor {
	e := &Extractor{
		selectors: selectors,
		minLen:    minLen,
		maxLen:    maxLen,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PageResult holds everything extracted from one HTML page.
type PageResult struct {
	// Quotes are the validated records, in document order.
	Quotes []model.Quote

	// NextURL is the next-page link exactly as it appears in the
	// document, possibly relative. Empty when pagination ends.
	NextURL string

	// Containers is the number of container elements found, counted
	// before validation. Used to tell "empty page" apart from "every
	// record rejected" in logs.
	Containers int
}

// ExtractPage parses an HTML document and extracts all quote records
// and the next-page link. A page with no matching containers is not an
// error; it yields an empty result. Parse failures are.
func (e *Extractor) ExtractPage(pageURL string, body []byte) (*PageResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}

	containers := e.findContainers(doc)
	result := &PageResult{Containers: containers.Length()}

	capturedAt := e.now()
	containers.Each(func(i int, s *goquery.Selection) {
		q, ok := e.extractQuote(s, capturedAt)
		if !ok {
			return
		}
		result.Quotes = append(result.Quotes, q)
	})

	result.NextURL = e.findNextLink(doc)

	if result.Containers == 0 {
		e.logger.Warn("no quote containers matched", "url", pageURL)
	}

	return result, nil
}

// findContainers tries the container candidates in order and returns
// the matches of the first candidate that selects anything.
func (e *Extractor) findContainers(doc *goquery.Document) *goquery.Selection {
	for _, candidate := range e.selectors.Container {
		if matched := doc.Find(candidate); matched.Length() > 0 {
			return matched
		}
	}
	return &goquery.Selection{}
}

// extractQuote pulls one record out of a container element. The second
// return value is false when the record fails validation or the
// container is structurally broken. A panicking selector engine on one
// container must not take down the page, so failures here are recovered
// and reported as a skip.
func (e *Extractor) extractQuote(s *goquery.Selection, capturedAt time.Time) (q model.Quote, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("skipping broken quote container", "reason", r)
			ok = false
		}
	}()

	text := firstNonEmpty(s, e.selectors.Text)
	if !model.ValidateText(text, e.minLen, e.maxLen) {
		return model.Quote{}, false
	}

	author := firstNonEmpty(s, e.selectors.Author)
	if author == "" {
		author = model.UnknownAuthor
	}

	return model.NewQuote(text, author, e.collectTags(s), capturedAt), true
}

// firstNonEmpty tries candidates in order against the container and
// returns the first non-empty trimmed text.
func firstNonEmpty(s *goquery.Selection, candidates []string) string {
	for _, candidate := range candidates {
		if text := trimmedText(s.Find(candidate).First()); text != "" {
			return text
		}
	}
	return ""
}

// collectTags gathers tags across all tag candidates. Unlike the other
// fields, every candidate contributes; duplicate texts from repeated
// elements are kept.
func (e *Extractor) collectTags(s *goquery.Selection) []string {
	var tags []string
	for _, candidate := range e.selectors.Tags {
		s.Find(candidate).Each(func(i int, tag *goquery.Selection) {
			if text := trimmedText(tag); text != "" {
				tags = append(tags, text)
			}
		})
	}
	return tags
}

// findNextLink tries the next-page candidates in order and returns the
// raw href of the first matched element that carries one.
func (e *Extractor) findNextLink(doc *goquery.Document) string {
	for _, candidate := range e.selectors.NextPage {
		href, exists := doc.Find(candidate).First().Attr("href")
		if exists && href != "" {
			return href
		}
	}
	return ""
}

// trimmedText returns the selection's text with surrounding whitespace
// removed.
func trimmedText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
