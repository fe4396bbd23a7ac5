// File: internal/reporting/json.go
package reporting

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonReporter encodes the Summary as indented JSON for downstream tooling.
type jsonReporter struct {
	w io.WriteCloser
}

func newJSONReporter(w io.WriteCloser) *jsonReporter {
	return &jsonReporter{w: w}
}

func (r *jsonReporter) Write(summary *Summary) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func (r *jsonReporter) Close() error {
	return r.w.Close()
}
