package extract

import "github.com/quotegrab/quotegrab/internal/model"

// Deduper tracks quote fingerprints and admits each distinct quote
// exactly once. It is not safe for concurrent use; the crawl is
// strictly sequential so no locking is needed.
//
// Design decision: Deduplication scope is owned by the caller, not by
// this type. The aggregator creates one Deduper per seed by default
// (the same quote appearing on two sites is kept twice) and shares a
// single instance across seeds when global dedup is requested.
type Deduper struct {
	seen map[string]struct{}
}

// NewDeduper creates an empty Deduper.
func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]struct{})}
}

// IsNew reports whether the quote's fingerprint has not been seen
// before, registering it as seen. The first call for a given
// fingerprint returns true; every later call returns false.
func (d *Deduper) IsNew(q model.Quote) bool {
	fp := q.Fingerprint()
	if _, ok := d.seen[fp]; ok {
		return false
	}
	d.seen[fp] = struct{}{}
	return true
}

// Len returns the number of distinct fingerprints registered.
func (d *Deduper) Len() int {
	return len(d.seen)
}
