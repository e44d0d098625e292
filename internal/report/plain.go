package report

import (
	"io"
	"strings"

	"github.com/gitpan/rgetlinks/internal/model"
)

// PlainWriter renders records as the classic indented listing: one line per
// record, the URL prefixed by one space per depth level.
//
// This is the tool's primary output and its format is a compatibility
// contract. Scripts parse the leading spaces to recover depth, so nothing
// else may ever be written to the same stream.
type PlainWriter struct {
	baseWriter
}

// NewPlainWriter creates a PlainWriter that outputs to the given writer,
// typically stdout.
func NewPlainWriter(output io.Writer) *PlainWriter {
	return &PlainWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteRecord writes one record line. It is safe to call as records are
// emitted; the listing streams instead of waiting for the run to finish.
func (w *PlainWriter) WriteRecord(rec model.LinkRecord) error {
	line := strings.Repeat(" ", rec.Depth) + rec.URL + "\n"
	_, err := io.WriteString(w.output, line)
	return err
}

// Write outputs the full listing for an already completed result.
func (w *PlainWriter) Write(result *model.CrawlResult) (int, error) {
	var total int
	for _, rec := range result.Records {
		line := strings.Repeat(" ", rec.Depth) + rec.URL + "\n"
		n, err := io.WriteString(w.output, line)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
