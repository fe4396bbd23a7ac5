// File: internal/simulation/engine.go
// Description: The Monte Carlo core. It repeatedly simulates a noise-only
// experiment, applies the flawed select-the-extremum-per-subject analysis,
// and collects the resulting spurious effect sizes.

package simulation

import (
	"context"
	"errors"
	"math/rand"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RolloutResult summarizes one rollout: the mean and sample standard
// deviation, across subjects, of the per-subject selected extrema.
type RolloutResult struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Output is the ordered sequence of rollout results. Position corresponds to
// rollout index; beyond that the rollouts are exchangeable.
type Output []RolloutResult

// Means extracts the per-rollout means. This slice is the hand-off to the
// reporting layer: its empirical distribution approximates the sampling
// distribution of the spurious effect under a true effect of zero.
func (o Output) Means() []float64 {
	means := make([]float64, len(o))
	for i, r := range o {
		means[i] = r.Mean
	}
	return means
}

// Engine executes the simulation described by its Config. It holds no
// mutable state between runs; every rollout is a pure function of the config
// and its private random sub-stream.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// New validates the configuration and creates an Engine. Validation is
// eager: an invalid config is rejected here, before any sampling.
func New(cfg Config, logger *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:    cfg,
		logger: logger.With(zap.String("component", "simulation_engine")),
	}, nil
}

// Config returns the engine's (validated) configuration.
func (e *Engine) Config() Config { return e.cfg }

// Run executes all rollouts and returns their results. The random source is
// the only input besides the config; a given (config, seed) pair always
// produces the same Output, on both the sequential and the parallel path.
// The context is consulted between rollouts so a cancelled run stops early.
func (e *Engine) Run(ctx context.Context, src *Source) (Output, error) {
	if src == nil {
		return nil, errors.New("random source cannot be nil")
	}

	e.logger.Debug("Starting simulation run",
		zap.Int("subjects", e.cfg.Subjects),
		zap.Int("trials", e.cfg.Trials),
		zap.Float64("noise_std_dev", e.cfg.NoiseStdDev),
		zap.Int("rollouts", e.cfg.Rollouts),
		zap.String("policy", string(e.cfg.policy())),
		zap.Int64("seed", src.Seed()),
	)

	out := make(Output, e.cfg.Rollouts)
	if e.cfg.Workers > 1 {
		if err := e.runParallel(ctx, src, out); err != nil {
			return nil, err
		}
		return out, nil
	}

	row := make([]float64, e.cfg.Trials)
	extrema := make([]float64, e.cfg.Subjects)
	for i := 0; i < e.cfg.Rollouts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.rollout(src.Stream(i), row, extrema)
	}
	return out, nil
}

// runParallel fans the rollout indices out over a bounded worker pool. Each
// worker owns its scratch buffers and each rollout derives its own random
// sub-stream, so no synchronization is needed beyond the group itself and
// the output matches the sequential path bit for bit.
func (e *Engine) runParallel(ctx context.Context, src *Source, out Output) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)

	chunk := (e.cfg.Rollouts + e.cfg.Workers - 1) / e.cfg.Workers
	for start := 0; start < e.cfg.Rollouts; start += chunk {
		end := start + chunk
		if end > e.cfg.Rollouts {
			end = e.cfg.Rollouts
		}
		g.Go(func() error {
			row := make([]float64, e.cfg.Trials)
			extrema := make([]float64, e.cfg.Subjects)
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				out[i] = e.rollout(src.Stream(i), row, extrema)
			}
			return nil
		})
	}
	return g.Wait()
}

// rollout simulates one complete experiment: a Subjects x Trials matrix of
// pure noise, one selected extremum per subject, then mean and sample
// standard deviation across subjects. The matrix lives one row at a time in
// the scratch buffer and is discarded as soon as its extremum is taken.
func (e *Engine) rollout(rng *rand.Rand, row, extrema []float64) RolloutResult {
	policy := e.cfg.policy()
	for i := range extrema {
		for j := range row {
			row[j] = e.cfg.NoiseStdDev * rng.NormFloat64()
		}
		extrema[i] = selectExtremum(row, policy)
	}
	return RolloutResult{Mean: Mean(extrema), StdDev: SampleStdDev(extrema)}
}

// selectExtremum picks the seemingly best value from one subject's row of
// measurements. This single line is the experimental-design flaw under
// study.
func selectExtremum(row []float64, policy ExtremumPolicy) float64 {
	best := row[0]
	for _, v := range row[1:] {
		if (policy == SelectMax && v > best) || (policy != SelectMax && v < best) {
			best = v
		}
	}
	return best
}
