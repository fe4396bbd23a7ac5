// File: internal/reporting/reporter.go
package reporting

import (
	"fmt"
	"io"
	"os"
)

// Reporter renders a simulation Summary to an output sink.
type Reporter interface {
	// Write renders the summary.
	Write(summary *Summary) error
	// Close finalizes the report and releases the underlying sink.
	Close() error
}

// nopWriteCloser wraps an io.Writer with a no-op Close so stdout is never
// actually closed.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error { return nil }

// New creates a Reporter for the given format and output path. An empty
// path or "stdout" writes to standard output.
func New(format, outputPath string) (Reporter, error) {
	var writer io.WriteCloser
	isStdOut := outputPath == "" || outputPath == "stdout"

	if isStdOut {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	switch format {
	case "text":
		return newTextReporter(writer), nil
	case "json":
		return newJSONReporter(writer), nil
	default:
		if !isStdOut {
			writer.Close()
		}
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
