// File: internal/reporting/summary.go
// Description: Turns the engine's per-rollout means into a reportable
// empirical distribution: summary statistics, a probability-normalized
// histogram, the empirical CDF, and tail fractions at reference thresholds.

package reporting

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// Published spurious effect sizes from the motivating literature. The whole
// point of the report is how often pure noise reaches them.
var DefaultThresholds = []float64{-0.0468, -0.147}

// defaultBins is the histogram resolution used when Options leaves it unset.
const defaultBins = 40

// Bin is one histogram cell over the observed range of rollout means.
type Bin struct {
	Low         float64 `json:"low"`
	High        float64 `json:"high"`
	Count       int     `json:"count"`
	Probability float64 `json:"probability"`
	Cumulative  float64 `json:"cumulative"`
}

// ThresholdStat records how much of the empirical distribution lies at or
// beyond one reference effect size.
type ThresholdStat struct {
	Value        float64 `json:"value"`
	TailFraction float64 `json:"tail_fraction"`
}

// Summary is the complete report payload handed to a Reporter.
type Summary struct {
	RunID      string             `json:"run_id,omitempty"`
	Count      int                `json:"count"`
	Mean       float64            `json:"mean"`
	StdDev     float64            `json:"std_dev"`
	Min        float64            `json:"min"`
	Max        float64            `json:"max"`
	Quantiles  map[string]float64 `json:"quantiles"`
	Histogram  []Bin              `json:"histogram"`
	Thresholds []ThresholdStat    `json:"thresholds"`
}

// Options tunes summary construction.
type Options struct {
	// Bins is the histogram bin count; 0 means defaultBins.
	Bins int
	// Thresholds are the reference effect sizes; nil means DefaultThresholds.
	Thresholds []float64
	// TailAbove counts rollouts at or above each threshold instead of at or
	// below. Set it when the engine ran with the max policy, where the
	// spurious effect points the other way.
	TailAbove bool
	// RunID, when set, is carried into the Summary for log correlation.
	RunID string
}

// BuildSummary computes the empirical distribution of the per-rollout means.
// The input slice is not modified.
func BuildSummary(means []float64, opts Options) (*Summary, error) {
	if len(means) == 0 {
		return nil, errors.New("cannot summarize an empty simulation output")
	}

	bins := opts.Bins
	if bins == 0 {
		bins = defaultBins
	}
	if bins < 1 {
		return nil, fmt.Errorf("bin count must be positive, got %d", bins)
	}
	thresholds := opts.Thresholds
	if thresholds == nil {
		thresholds = DefaultThresholds
	}

	sorted := append([]float64(nil), means...)
	sort.Float64s(sorted)
	samp := stats.Sample{Xs: sorted, Sorted: true}

	min, max := samp.Bounds()
	s := &Summary{
		RunID:  opts.RunID,
		Count:  len(sorted),
		Mean:   samp.Mean(),
		StdDev: samp.StdDev(),
		Min:    min,
		Max:    max,
		Quantiles: map[string]float64{
			"p5":  samp.Quantile(0.05),
			"p25": samp.Quantile(0.25),
			"p50": samp.Quantile(0.50),
			"p75": samp.Quantile(0.75),
			"p95": samp.Quantile(0.95),
		},
		Histogram: buildHistogram(sorted, bins),
	}

	for _, thr := range thresholds {
		s.Thresholds = append(s.Thresholds, ThresholdStat{
			Value:        thr,
			TailFraction: tailFraction(sorted, thr, opts.TailAbove),
		})
	}
	return s, nil
}

// buildHistogram bins the sorted values over their observed range and
// normalizes counts to probabilities plus a running cumulative density.
func buildHistogram(sorted []float64, bins int) []Bin {
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		// Degenerate distribution: one bin holding everything.
		return []Bin{{Low: lo, High: hi, Count: len(sorted), Probability: 1, Cumulative: 1}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Low = lo + float64(i)*width
		out[i].High = lo + float64(i+1)*width
	}
	for _, v := range sorted {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1 // the maximum lands in the last bin
		}
		out[idx].Count++
	}

	n := float64(len(sorted))
	cum := 0.0
	for i := range out {
		out[i].Probability = float64(out[i].Count) / n
		cum += out[i].Probability
		out[i].Cumulative = cum
	}
	return out
}

// tailFraction is the share of sorted values at or beyond the threshold, on
// the side the extremum policy biases toward.
func tailFraction(sorted []float64, threshold float64, above bool) float64 {
	n := len(sorted)
	if above {
		// First index with value >= threshold.
		i := sort.SearchFloat64s(sorted, threshold)
		return float64(n-i) / float64(n)
	}
	// Count of values <= threshold.
	i := sort.Search(n, func(i int) bool { return sorted[i] > threshold })
	return float64(i) / float64(n)
}
