// File: internal/reporting/text.go
package reporting

import (
	"fmt"
	"io"
	"strings"
)

// barWidth is the maximum width of a histogram bar in characters.
const barWidth = 50

// textReporter renders a human-readable report: summary line, ASCII
// histogram with cumulative density, and the reference threshold lines.
type textReporter struct {
	w io.WriteCloser
}

func newTextReporter(w io.WriteCloser) *textReporter {
	return &textReporter{w: w}
}

func (r *textReporter) Write(summary *Summary) error {
	var b strings.Builder

	b.WriteString("Spurious effect distribution (noise-only rollouts)\n")
	b.WriteString("--------------------------------------------------\n")
	if summary.RunID != "" {
		fmt.Fprintf(&b, "Run:       %s\n", summary.RunID)
	}
	fmt.Fprintf(&b, "Rollouts:  %d\n", summary.Count)
	fmt.Fprintf(&b, "Mean:      %+.5f\n", summary.Mean)
	fmt.Fprintf(&b, "Std dev:   %.5f\n", summary.StdDev)
	fmt.Fprintf(&b, "Range:     [%+.5f, %+.5f]\n", summary.Min, summary.Max)
	fmt.Fprintf(&b, "Quantiles: p5=%+.5f p25=%+.5f p50=%+.5f p75=%+.5f p95=%+.5f\n",
		summary.Quantiles["p5"], summary.Quantiles["p25"], summary.Quantiles["p50"],
		summary.Quantiles["p75"], summary.Quantiles["p95"])

	b.WriteString("\nHistogram (probability, cumulative)\n")
	peak := 0.0
	for _, bin := range summary.Histogram {
		if bin.Probability > peak {
			peak = bin.Probability
		}
	}
	for _, bin := range summary.Histogram {
		width := 0
		if peak > 0 {
			width = int(bin.Probability / peak * barWidth)
		}
		fmt.Fprintf(&b, "%+.5f .. %+.5f | %-*s %5.3f %5.3f\n",
			bin.Low, bin.High, barWidth, strings.Repeat("#", width),
			bin.Probability, bin.Cumulative)
	}

	if len(summary.Thresholds) > 0 {
		b.WriteString("\nReference effect sizes\n")
		for _, thr := range summary.Thresholds {
			fmt.Fprintf(&b, "%+.4f reached by %.1f%% of noise-only rollouts\n",
				thr.Value, thr.TailFraction*100)
		}
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *textReporter) Close() error {
	return r.w.Close()
}
