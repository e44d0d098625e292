package crawler

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gitpan/rgetlinks/internal/model"
)

// LinkFetcher returns the hyperlink targets found on one page.
//
// Implementations must treat a failed fetch as a recoverable condition: the
// returned error is diagnostic, and the traverser continues with an empty
// link set for that page.
type LinkFetcher interface {
	FetchLinks(ctx context.Context, pageURL string) ([]string, error)
}

// RecordHandler receives each record as it is emitted, in emission order.
// Returning a non-nil error aborts the traversal.
type RecordHandler func(record model.LinkRecord) error

// Traverser walks the hyperlink graph from a start URL, breadth-first and
// bounded in depth. It is safe to reuse across runs: all per-run state lives
// in a private structure created by Traverse.
type Traverser struct {
	// fetcher expands one node into its outgoing links.
	fetcher LinkFetcher

	// maxDepth is the inclusive depth bound. Links are discovered at depths
	// 1 through maxDepth; pages at depth maxDepth are never fetched.
	maxDepth int

	// workers bounds concurrent page prefetches. With 1 worker every fetch
	// happens inline. More workers prefetch a frontier in parallel; emission
	// order and the visited set are identical either way.
	workers int

	// handler, if set, receives each record as it is emitted.
	handler RecordHandler

	// logger receives traversal diagnostics.
	logger *slog.Logger
}

// TraverserOption configures a Traverser.
type TraverserOption func(*Traverser)

// WithMaxDepth sets the inclusive traversal depth bound.
// A bound of 0 emits only the start URL without fetching anything.
func WithMaxDepth(depth int) TraverserOption {
	return func(t *Traverser) {
		if depth >= 0 {
			t.maxDepth = depth
		}
	}
}

// WithWorkers sets how many pages may be prefetched concurrently.
func WithWorkers(n int) TraverserOption {
	return func(t *Traverser) {
		if n > 0 {
			t.workers = n
		}
	}
}

// WithRecordHandler streams each record to handler at emission time.
func WithRecordHandler(handler RecordHandler) TraverserOption {
	return func(t *Traverser) {
		t.handler = handler
	}
}

// WithTraverserLogger sets the logger for traversal diagnostics.
func WithTraverserLogger(logger *slog.Logger) TraverserOption {
	return func(t *Traverser) {
		t.logger = logger
	}
}

// NewTraverser creates a Traverser that expands nodes through fetcher.
func NewTraverser(fetcher LinkFetcher, opts ...TraverserOption) *Traverser {
	t := &Traverser{
		fetcher:  fetcher,
		maxDepth: 2,
		workers:  1,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.logger == nil {
		t.logger = slog.Default()
	}

	return t
}

// traversal is the per-run state of one Traverse call.
type traversal struct {
	// visited holds every URL already discovered this run; guarded by mu so
	// discovery stays a single atomic check-and-set.
	visited map[string]struct{}
	mu      sync.Mutex

	// depth is the current traversal depth, incremented around the expansion
	// of each level of the recursion.
	depth int

	// records is the emission sequence in discovery order.
	records []model.LinkRecord

	// prefetched caches link sets fetched ahead of their expansion.
	prefetched map[string]prefetchResult
}

type prefetchResult struct {
	links []string
	err   error
}

// tryVisit marks rawURL visited and reports whether it was new.
// Check and insert happen under one lock so a URL can win discovery only once.
func (st *traversal) tryVisit(rawURL string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.visited[rawURL]; ok {
		return false
	}
	st.visited[rawURL] = struct{}{}
	return true
}

// Traverse walks the hyperlink graph from startURL and returns every record
// in emission order. The start URL is emitted verbatim at depth 0 before any
// network activity. The only fatal errors are context cancellation and a
// handler refusing a record; fetch failures merely truncate that branch.
func (t *Traverser) Traverse(ctx context.Context, startURL string) ([]model.LinkRecord, error) {
	st := &traversal{
		visited:    make(map[string]struct{}),
		records:    make([]model.LinkRecord, 0),
		prefetched: make(map[string]prefetchResult),
	}

	st.tryVisit(startURL)
	if err := t.emit(st, model.LinkRecord{URL: startURL, Depth: 0}); err != nil {
		return st.records, err
	}

	if err := t.expand(ctx, st, startURL); err != nil {
		return st.records, err
	}

	return st.records, nil
}

// expand fetches pageURL, discovers and emits its not-yet-seen links one
// level deeper, then expands each of those links in emission order.
//
// All children of a node are discovered, marked visited, and emitted before
// any one of them is expanded. That sequencing is what makes the recursion
// breadth-first in its discovery semantics.
func (t *Traverser) expand(ctx context.Context, st *traversal, pageURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if st.depth >= t.maxDepth {
		return nil
	}

	links, err := t.fetchLinks(ctx, st, pageURL)
	if err != nil {
		t.logger.Warn("skipping unreachable page", "url", pageURL, "error", err)
	}

	st.depth++
	defer func() { st.depth-- }()

	frontier := make([]string, 0, len(links))
	for _, link := range links {
		if !st.tryVisit(link) {
			continue
		}
		if err := t.emit(st, model.LinkRecord{URL: link, Depth: st.depth}); err != nil {
			return err
		}
		frontier = append(frontier, link)
	}

	// Prefetch pays off only when the frontier will itself be fetched.
	if t.workers > 1 && st.depth < t.maxDepth {
		t.prefetch(ctx, st, frontier)
	}

	for _, link := range frontier {
		if err := t.expand(ctx, st, link); err != nil {
			return err
		}
	}

	return nil
}

// emit appends rec to the run's record sequence and forwards it to the
// configured handler.
func (t *Traverser) emit(st *traversal, rec model.LinkRecord) error {
	st.records = append(st.records, rec)
	if t.handler != nil {
		return t.handler(rec)
	}
	return nil
}

// fetchLinks returns the link set for pageURL, consuming a prefetched result
// when one is available.
func (t *Traverser) fetchLinks(ctx context.Context, st *traversal, pageURL string) ([]string, error) {
	if res, ok := st.prefetched[pageURL]; ok {
		delete(st.prefetched, pageURL)
		return res.links, res.err
	}
	return t.fetcher.FetchLinks(ctx, pageURL)
}

// prefetch fetches the frontier's pages concurrently and parks the results
// for the sequential expansion that follows. Fetch errors are parked too,
// so the expansion handles them exactly as it would inline.
func (t *Traverser) prefetch(ctx context.Context, st *traversal, frontier []string) {
	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(t.workers)

	for _, link := range frontier {
		g.Go(func() error {
			links, err := t.fetcher.FetchLinks(ctx, link)

			mu.Lock()
			st.prefetched[link] = prefetchResult{links: links, err: err}
			mu.Unlock()
			return nil
		})
	}

	// Goroutines never return errors; results, including failures, are
	// parked in the prefetch cache.
	_ = g.Wait()
}
