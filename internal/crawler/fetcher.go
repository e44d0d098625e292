package crawler

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"

	"github.com/gitpan/rgetlinks/internal/model"
)

// Fetcher retrieves a page and extracts the hyperlink targets found on it.
//
// Before downloading a body, the fetcher issues a HEAD request and inspects
// the declared Content-Type. Non-textual resources are skipped without a GET.
// This is a bandwidth guard: link discovery must never download a
// multi-gigabyte binary just to learn it contains no anchors.
//
// Design decision: We require an external *http.Client rather than building
// one internally because proxy configuration (SOCKS5, embedded Tor) is
// handled by the proxy package, and tests can supply httptest clients.
type Fetcher struct {
	// client performs all HTTP requests. Its Timeout is the per-request
	// timeout; a timed-out fetch is a recoverable failure, not a fatal error.
	client *http.Client

	// userAgent is the User-Agent header sent with every request.
	userAgent string

	// maxBodySize bounds how many bytes of a response body are read.
	maxBodySize int64

	// headers are extra request headers applied to every request.
	headers map[string]string

	// logger receives debug-level fetch diagnostics.
	logger *slog.Logger

	// stats counts fetch outcomes; guarded by mu because the traverser may
	// prefetch pages concurrently.
	stats model.FetchStats
	mu    sync.Mutex
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithRequestHeaders sets extra headers applied to every request.
// Useful for crawling behind authentication.
func WithRequestHeaders(headers map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithFetcherLogger sets the logger for fetch diagnostics.
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher using the given HTTP client.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   "rgetlinks/2.0 (+https://github.com/gitpan/rgetlinks)",
		maxBodySize: 5 * 1024 * 1024, // 5MB
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// FetchLinks returns the absolute hyperlink target URLs found on the page at
// pageURL, in document order with per-page duplicates removed.
//
// On any failure (network error, timeout, non-2xx status) it returns an empty
// set together with the cause; callers treat the error as diagnostic only and
// continue. A non-textual resource yields an empty set and a nil error: being
// skipped is not a failure.
//
// Candidate links are every attribute value present on every <a> tag, not
// just href. This matches the behavior downstream filters were built against;
// see the package documentation before "fixing" it. Candidates are resolved
// against the response's effective base URL, which accounts for redirects and
// an in-document <base href> declaration.
func (f *Fetcher) FetchLinks(ctx context.Context, pageURL string) ([]string, error) {
	contentType, err := f.probeContentType(ctx, pageURL)
	if err != nil {
		f.countFailure()
		f.logger.Debug("content-type probe failed", "url", pageURL, "error", err)
		return nil, err
	}

	if !isTextualContentType(contentType) {
		f.countSkip()
		f.logger.Debug("skipping non-textual resource", "url", pageURL, "contentType", contentType)
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		f.countFailure()
		return nil, err
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		f.countFailure()
		f.logger.Debug("fetch failed", "url", pageURL, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.countFailure()
		f.logger.Debug("fetch returned non-success status", "url", pageURL, "status", resp.StatusCode)
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, pageURL)
	}

	f.countPage()

	// The effective base URL is the final request URL after redirects, not
	// the URL we were asked to fetch. Relative links on a redirected page
	// resolve against where the page actually lives.
	base := resp.Request.URL

	body := f.decodedBody(resp.Body, resp.Header.Get("Content-Type"))
	return extractLinks(body, base), nil
}

// Stats returns the cumulative fetch counters for this Fetcher.
func (f *Fetcher) Stats() model.FetchStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

// probeContentType issues a HEAD request and returns the declared
// Content-Type of the resource. The body, if any, is discarded.
func (f *Fetcher) probeContentType(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, pageURL, nil)
	if err != nil {
		return "", err
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// A failing probe means the GET would fail too; skip it so the failure
	// is counted once and the server is bothered once.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d probing %s", resp.StatusCode, pageURL)
	}

	return resp.Header.Get("Content-Type"), nil
}

// setHeaders applies the User-Agent and any configured extra headers.
func (f *Fetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	for name, value := range f.headers {
		req.Header.Set(name, value)
	}
}

// decodedBody wraps the response body with a size limit and a decoder that
// transforms the declared or sniffed charset to UTF-8 for the tokenizer.
func (f *Fetcher) decodedBody(r io.Reader, contentType string) io.Reader {
	br := bufio.NewReader(io.LimitReader(r, f.maxBodySize))

	// Peek errors are fine: DetermineEncoding falls back to UTF-8 for short
	// or empty input, and the tokenizer sees the reader's real error later.
	peek, _ := br.Peek(1024)
	enc, _, _ := charset.DetermineEncoding(peek, contentType)

	return transform.NewReader(br, enc.NewDecoder())
}

func (f *Fetcher) countPage() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats.Pages++
}

func (f *Fetcher) countFailure() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats.Failures++
}

func (f *Fetcher) countSkip() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats.Skipped++
}

// isTextualContentType reports whether the declared Content-Type indicates a
// text/HTML resource worth downloading. An absent or unparsable declaration
// is treated as non-textual: when in doubt, don't download.
func isTextualContentType(contentType string) bool {
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return strings.HasPrefix(mediaType, "text/") || mediaType == "application/xhtml+xml"
}

// extractLinks scans the body incrementally for anchor tags and collects
// every attribute value on each anchor as a candidate link, resolved to an
// absolute URL against base. Duplicates within one page are dropped; order
// of first appearance is preserved.
//
// Design decision: We use the streaming tokenizer rather than html.Parse
// because it degrades gracefully on malformed or truncated markup: whatever
// well-formed anchors precede the damage are kept, matching the best-effort
// extraction contract.
func extractLinks(r io.Reader, base *url.URL) []string {
	z := html.NewTokenizer(r)
	seen := make(map[string]struct{})
	links := make([]string, 0)

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input. Either way, return what we have.
			return links

		case html.StartTagToken, html.SelfClosingTagToken:
			tag, hasAttr := z.TagName()
			if !hasAttr {
				continue
			}

			switch string(tag) {
			case "a":
				for {
					_, val, more := z.TagAttr()
					if abs, ok := resolveCandidate(base, string(val)); ok {
						if _, dup := seen[abs]; !dup {
							seen[abs] = struct{}{}
							links = append(links, abs)
						}
					}
					if !more {
						break
					}
				}

			case "base":
				// An in-document base declaration changes the effective base
				// for everything after it.
				for {
					key, val, more := z.TagAttr()
					if string(key) == "href" {
						if u, err := url.Parse(strings.TrimSpace(string(val))); err == nil {
							base = base.ResolveReference(u)
						}
					}
					if !more {
						break
					}
				}
			}
		}
	}
}

// resolveCandidate resolves one candidate link string against the base URL.
// Empty and unparsable candidates are dropped; everything else resolves,
// including non-HTTP schemes, which pass through unchanged.
func resolveCandidate(base *url.URL, candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return "", false
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return "", false
	}

	return base.ResolveReference(u).String(), true
}
