package report

import (
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/gitpan/rgetlinks/internal/model"
)

// MarkdownWriter renders a traversal summary in Markdown format, for
// documentation and sharing. It complements the plain listing rather than
// replacing it: the listing is the data, the summary is the story.
//
// Design decision: We use the nao1215/markdown library for fluent,
// type-safe markdown generation with table support.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary report in Markdown format.
func (w *MarkdownWriter) Write(result *model.CrawlResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeDepthBreakdown(md, result)
	w.writeFetchStats(md, result)

	return len(md.String()), md.Build()
}

// writeHeader writes the run overview.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.CrawlResult) {
	md.H1("Link Discovery Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Start URL", "`" + result.StartURL + "`"},
			{"Depth Bound", strconv.Itoa(result.MaxDepth)},
			{"Links Discovered", strconv.Itoa(len(result.Records))},
			{"Deepest Level Reached", strconv.Itoa(result.DeepestDepth())},
			{"Elapsed", result.Elapsed.Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")
}

// writeDepthBreakdown writes the per-depth discovery counts.
func (w *MarkdownWriter) writeDepthBreakdown(md *markdown.Markdown, result *model.CrawlResult) {
	md.H2("Links per Depth")
	md.PlainText("")

	counts := result.DepthCounts()
	depths := make([]int, 0, len(counts))
	for depth := range counts {
		depths = append(depths, depth)
	}
	sort.Ints(depths)

	rows := make([][]string, 0, len(depths))
	for _, depth := range depths {
		rows = append(rows, []string{strconv.Itoa(depth), strconv.Itoa(counts[depth])})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Depth", "Links"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFetchStats writes the fetch outcome counters.
func (w *MarkdownWriter) writeFetchStats(md *markdown.Markdown, result *model.CrawlResult) {
	md.H2("Fetch Statistics")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"Pages fetched", strconv.Itoa(result.Stats.Pages)},
			{"Fetch failures", strconv.Itoa(result.Stats.Failures)},
			{"Non-textual resources skipped", strconv.Itoa(result.Stats.Skipped)},
		},
	})
}
