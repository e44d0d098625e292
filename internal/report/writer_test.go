package report

import (
	"strings"
	"testing"
	"time"

	"github.com/gitpan/rgetlinks/internal/model"
)

func testResult() *model.CrawlResult {
	return &model.CrawlResult{
		StartURL: "http://example.com/",
		MaxDepth: 2,
		Records: []model.LinkRecord{
			{URL: "http://example.com/", Depth: 0},
			{URL: "http://example.com/a", Depth: 1},
			{URL: "http://example.com/a/deep", Depth: 2},
			{URL: "http://example.com/b", Depth: 1},
		},
		Stats:   model.FetchStats{Pages: 3, Failures: 1, Skipped: 2},
		Elapsed: 1234 * time.Millisecond,
	}
}

// TestPlainWriter tests the indented listing format. The exact byte layout
// is a compatibility contract: depth spaces, URL, newline, nothing else.
func TestPlainWriter(t *testing.T) {
	t.Parallel()

	t.Run("full result listing", func(t *testing.T) {
		t.Parallel()

		var buf strings.Builder
		w := NewPlainWriter(&buf)

		n, err := w.Write(testResult())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "http://example.com/\n" +
			" http://example.com/a\n" +
			"  http://example.com/a/deep\n" +
			" http://example.com/b\n"
		if buf.String() != want {
			t.Errorf("listing mismatch:\ngot:\n%s\nwant:\n%s", buf.String(), want)
		}
		if n != len(want) {
			t.Errorf("expected %d bytes written, got %d", len(want), n)
		}
	})

	t.Run("streaming records matches batch output", func(t *testing.T) {
		t.Parallel()

		result := testResult()

		var streamed strings.Builder
		sw := NewPlainWriter(&streamed)
		for _, rec := range result.Records {
			if err := sw.WriteRecord(rec); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		var batch strings.Builder
		if _, err := NewPlainWriter(&batch).Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if streamed.String() != batch.String() {
			t.Errorf("streamed output differs from batch output:\n%s\nvs:\n%s",
				streamed.String(), batch.String())
		}
	})
}

// TestMarkdownWriter tests the summary report content.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	w := NewMarkdownWriter(&buf)

	if _, err := w.Write(testResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Link Discovery Report",
		"`http://example.com/`",
		"## Links per Depth",
		"## Fetch Statistics",
		"Pages fetched",
		"1.234s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected report to contain %q, got:\n%s", want, out)
		}
	}
}
