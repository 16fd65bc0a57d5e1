package export

import (
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/quotegrab/quotegrab/internal/model"
)

// topListLimit bounds the author and tag ranking tables.
const topListLimit = 10

// MarkdownWriter outputs datasets as a human-readable Markdown report.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	info RunInfo

	// now stamps the report's generation time, injectable for tests.
	now func() time.Time
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownClock replaces the generation-time source.
func WithMarkdownClock(now func() time.Time) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.now = now
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer, info RunInfo, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		info:       info,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the dataset as a Markdown report.
func (w *MarkdownWriter) Write(dataset *model.Dataset) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, dataset)

	if dataset.Empty() {
		md.Tip("No records found. Check the seed URLs and selector configuration.")
		md.PlainText("")
		w.writeFooter(md)
		return len(md.String()), md.Build()
	}

	w.writeTopAuthors(md, dataset)
	w.writeTagChart(md, dataset)
	w.writeQuotes(md, dataset)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the run summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, dataset *model.Dataset) {
	generatedAt := w.now()

	md.H1("Quote Collection Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", "`" + w.info.Source + "`"},
			{"Run ID", "`" + w.info.RunID + "`"},
			{"Generated", generatedAt.Format("2006-01-02 15:04:05 MST")},
			{"Quotes Collected", strconv.Itoa(len(dataset.Quotes))},
			{"Unique Authors", strconv.Itoa(dataset.DistinctAuthors())},
			{"Pages Fetched", strconv.Itoa(dataset.Stats.PagesFetched)},
			{"Failed Requests", strconv.Itoa(dataset.Stats.FailedFetches)},
			{"Elapsed", dataset.Stats.Elapsed(generatedAt).Round(time.Second).String()},
		},
	})
	md.PlainText("")

	if dataset.Stats.FailedFetches > 0 {
		md.Warningf("%d request(s) failed after exhausting retries; results may be partial.", dataset.Stats.FailedFetches)
		md.PlainText("")
	}
}

// writeTopAuthors writes the most-quoted authors table.
func (w *MarkdownWriter) writeTopAuthors(md *markdown.Markdown, dataset *model.Dataset) {
	counts := make(map[string]int)
	for _, q := range dataset.Quotes {
		counts[q.Author]++
	}

	ranked := rankByCount(counts)
	if len(ranked) > topListLimit {
		ranked = ranked[:topListLimit]
	}

	rows := make([][]string, len(ranked))
	for i, r := range ranked {
		rows[i] = []string{r.label, strconv.Itoa(r.count)}
	}

	md.H2("Top Authors")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Author", "Quotes"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeTagChart writes a mermaid pie chart of tag frequency.
func (w *MarkdownWriter) writeTagChart(md *markdown.Markdown, dataset *model.Dataset) {
	counts := make(map[string]int)
	for _, q := range dataset.Quotes {
		for _, tag := range q.Tags {
			counts[tag]++
		}
	}
	if len(counts) == 0 {
		return
	}

	ranked := rankByCount(counts)
	if len(ranked) > topListLimit {
		ranked = ranked[:topListLimit]
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Tag Distribution"),
		piechart.WithShowData(true),
	)
	for _, r := range ranked {
		chart.LabelAndIntValue(r.label, uint64(r.count))
	}

	md.H2("Tags")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeQuotes writes every quote as a blockquote with attribution.
func (w *MarkdownWriter) writeQuotes(md *markdown.Markdown, dataset *model.Dataset) {
	md.H2("Quotes")
	md.PlainText("")

	for _, q := range dataset.Quotes {
		md.PlainText("> " + q.Text)
		attribution := "— " + q.Author
		if len(q.Tags) > 0 {
			attribution += " *(" + joinTags(q.Tags) + ")*"
		}
		md.PlainText(">")
		md.PlainText("> " + attribution)
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by quotegrab %s*", w.info.Version)
}

// joinTags joins tags with commas.
func joinTags(tags []string) string {
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += ", "
		}
		out += t
	}
	return out
}

// labelCount pairs a label with its frequency.
type labelCount struct {
	label string
	count int
}

// rankByCount sorts labels by descending count, breaking ties
// alphabetically so report output is deterministic.
func rankByCount(counts map[string]int) []labelCount {
	ranked := make([]labelCount, 0, len(counts))
	for label, count := range counts {
		ranked = append(ranked, labelCount{label: label, count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].label < ranked[j].label
	})
	return ranked
}
