// File: internal/simulation/config.go
package simulation

import "fmt"

// ExtremumPolicy selects which per-subject extremum the engine keeps before
// aggregating across subjects.
type ExtremumPolicy string

const (
	// SelectMin keeps the most negative measurement per subject. This matches
	// the motivating scenario, where the "best" outcome is the largest
	// reduction.
	SelectMin ExtremumPolicy = "min"
	// SelectMax keeps the most positive measurement per subject.
	SelectMax ExtremumPolicy = "max"
)

// ParsePolicy converts a user-supplied policy string into an ExtremumPolicy.
func ParsePolicy(s string) (ExtremumPolicy, error) {
	switch ExtremumPolicy(s) {
	case SelectMin, SelectMax:
		return ExtremumPolicy(s), nil
	default:
		return "", &InvalidConfigError{Field: "policy", Constraint: `must be "min" or "max"`}
	}
}

// Config fully determines the behavior of a simulation run together with the
// random source. It is treated as immutable once constructed.
type Config struct {
	// Subjects is the number of simulated participants per rollout.
	Subjects int `mapstructure:"subjects" yaml:"subjects"`
	// Trials is the number of conditions measured per subject. The selection
	// flaw being demonstrated picks one of these per subject.
	Trials int `mapstructure:"trials" yaml:"trials"`
	// NoiseStdDev scales the zero-mean normal noise applied to every
	// measurement. There is no true effect; noise is all there is.
	NoiseStdDev float64 `mapstructure:"noise_std_dev" yaml:"noise_std_dev"`
	// Rollouts is the number of independent repetitions of the whole
	// simulated experiment.
	Rollouts int `mapstructure:"rollouts" yaml:"rollouts"`
	// Policy picks the per-subject extremum. Defaults to SelectMin.
	Policy ExtremumPolicy `mapstructure:"policy" yaml:"policy"`
	// Workers sets the size of the rollout worker pool. Values below 2 run
	// the sequential path; results are identical either way for a given seed.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// InvalidConfigError reports a configuration parameter that violates its
// constraint. It is the only error kind the engine produces.
type InvalidConfigError struct {
	Field      string
	Constraint string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Constraint)
}

// Validate checks every parameter eagerly, before any sampling happens.
// A run with an invalid config never partially executes.
func (c Config) Validate() error {
	if c.Subjects < 1 {
		return &InvalidConfigError{Field: "subjects", Constraint: "must be >= 1"}
	}
	if c.Trials < 1 {
		return &InvalidConfigError{Field: "trials", Constraint: "must be >= 1"}
	}
	if c.NoiseStdDev <= 0 {
		return &InvalidConfigError{Field: "noise_std_dev", Constraint: "must be > 0"}
	}
	if c.Rollouts < 1 {
		return &InvalidConfigError{Field: "rollouts", Constraint: "must be >= 1"}
	}
	if c.Workers < 0 {
		return &InvalidConfigError{Field: "workers", Constraint: "must be >= 0"}
	}
	if c.Policy != "" {
		if _, err := ParsePolicy(string(c.Policy)); err != nil {
			return err
		}
	}
	return nil
}

// policy returns the effective extremum policy, applying the default.
func (c Config) policy() ExtremumPolicy {
	if c.Policy == "" {
		return SelectMin
	}
	return c.Policy
}
