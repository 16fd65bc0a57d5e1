package model

// Dataset is the cumulative result of a crawl run: every accepted
// record across all seeds, plus the merged statistics. The aggregator
// owns and mutates it during the run; exporters receive it read-only.
type Dataset struct {
	// Quotes are the accepted records in acceptance order.
	Quotes []Quote `json:"quotes"`

	// Stats are the merged run statistics.
	Stats RunStats `json:"stats"`
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{Quotes: make([]Quote, 0)}
}

// Append adds accepted records to the dataset.
func (d *Dataset) Append(quotes ...Quote) {
	d.Quotes = append(d.Quotes, quotes...)
}

// DistinctAuthors returns the number of distinct author strings.
// Comparison is exact: the extractor already trims authors, and
// case variants are considered distinct authors here, matching the
// reference behavior.
func (d *Dataset) DistinctAuthors() int {
	seen := make(map[string]struct{}, len(d.Quotes))
	for _, q := range d.Quotes {
		seen[q.Author] = struct{}{}
	}
	return len(seen)
}

// TotalTags returns the sum of tag counts across all records.
func (d *Dataset) TotalTags() int {
	total := 0
	for _, q := range d.Quotes {
		total += q.TagCount
	}
	return total
}

// Empty reports whether the run accepted no records at all.
func (d *Dataset) Empty() bool {
	return len(d.Quotes) == 0
}
