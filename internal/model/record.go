package model

import "time"

// LinkRecord is one discovered hyperlink and the depth at which it was first
// discovered. Records are emitted in discovery order; a URL is recorded at
// most once per traversal, at the depth of its first discovery. There is no
// depth relaxation: a URL reachable later through a shorter path keeps the
// depth it was first assigned.
//
// URL identity is exact string equality after absolute resolution. No
// normalization (case, trailing slash, query ordering) is applied anywhere;
// two spellings of the same resource are two distinct records.
type LinkRecord struct {
	// URL is the absolute URL string of the discovered link.
	URL string

	// Depth is the number of hyperlink hops from the start URL.
	// The start URL itself has depth 0.
	Depth int
}

// FetchStats counts what the fetcher did during one traversal.
// All counters are cumulative for the run.
type FetchStats struct {
	// Pages is the number of full page retrievals (GET requests) performed.
	Pages int

	// Failures is the number of fetches that failed (network error, timeout,
	// non-2xx status). Failed fetches contribute no links but never abort
	// the traversal.
	Failures int

	// Skipped is the number of resources skipped after the content-type
	// probe reported a non-textual resource. Skipping is not a failure;
	// it is the bandwidth guard working as intended.
	Skipped int
}

// CrawlResult is the complete outcome of one traversal run.
type CrawlResult struct {
	// StartURL is the URL the traversal started from.
	StartURL string

	// MaxDepth is the depth bound the traversal ran with.
	MaxDepth int

	// Records is the emission sequence in discovery order.
	// Records[0] is always the start URL at depth 0.
	Records []LinkRecord

	// Stats summarizes the fetcher's work for this run.
	Stats FetchStats

	// Elapsed is the wall-clock duration of the traversal.
	Elapsed time.Duration
}

// DepthCounts returns the number of records discovered at each depth.
func (r *CrawlResult) DepthCounts() map[int]int {
	counts := make(map[int]int)
	for _, rec := range r.Records {
		counts[rec.Depth]++
	}
	return counts
}

// DeepestDepth returns the largest depth present in the emission sequence.
// It returns 0 for a run that discovered only the start URL.
func (r *CrawlResult) DeepestDepth() int {
	deepest := 0
	for _, rec := range r.Records {
		if rec.Depth > deepest {
			deepest = rec.Depth
		}
	}
	return deepest
}
