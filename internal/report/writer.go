package report

import (
	"io"

	"github.com/gitpan/rgetlinks/internal/model"
)

// Writer outputs a completed traversal result.
//
// Design decision: We use an interface to allow different output formats
// and destinations. The plain listing and the Markdown summary share it, so
// the CLI can treat "things that render a result" uniformly.
type Writer interface {
	// Write outputs the result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.CrawlResult) (int, error)
}

// baseWriter provides common functionality for result writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
