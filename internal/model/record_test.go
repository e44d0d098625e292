package model

import (
	"testing"
)

// TestCrawlResultDepthCounts tests per-depth record counting.
func TestCrawlResultDepthCounts(t *testing.T) {
	t.Parallel()

	result := &CrawlResult{
		StartURL: "http://example.com/",
		MaxDepth: 2,
		Records: []LinkRecord{
			{URL: "http://example.com/", Depth: 0},
			{URL: "http://example.com/a", Depth: 1},
			{URL: "http://example.com/b", Depth: 1},
			{URL: "http://example.com/c", Depth: 2},
		},
	}

	counts := result.DepthCounts()
	if counts[0] != 1 {
		t.Errorf("expected 1 record at depth 0, got %d", counts[0])
	}
	if counts[1] != 2 {
		t.Errorf("expected 2 records at depth 1, got %d", counts[1])
	}
	if counts[2] != 1 {
		t.Errorf("expected 1 record at depth 2, got %d", counts[2])
	}
}

// TestCrawlResultDeepestDepth tests the deepest-depth helper.
func TestCrawlResultDeepestDepth(t *testing.T) {
	t.Parallel()

	t.Run("start only", func(t *testing.T) {
		t.Parallel()

		result := &CrawlResult{
			Records: []LinkRecord{{URL: "http://example.com/", Depth: 0}},
		}
		if got := result.DeepestDepth(); got != 0 {
			t.Errorf("expected deepest depth 0, got %d", got)
		}
	})

	t.Run("multiple depths", func(t *testing.T) {
		t.Parallel()

		result := &CrawlResult{
			Records: []LinkRecord{
				{URL: "http://example.com/", Depth: 0},
				{URL: "http://example.com/a", Depth: 1},
				{URL: "http://example.com/b", Depth: 3},
			},
		}
		if got := result.DeepestDepth(); got != 3 {
			t.Errorf("expected deepest depth 3, got %d", got)
		}
	})

	t.Run("empty result", func(t *testing.T) {
		t.Parallel()

		result := &CrawlResult{}
		if got := result.DeepestDepth(); got != 0 {
			t.Errorf("expected deepest depth 0 for empty result, got %d", got)
		}
	})
}
