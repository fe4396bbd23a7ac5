// File: cmd/run.go
package cmd

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/biaslab/internal/config"
	"github.com/xkilldash9x/biaslab/internal/observability"
	"github.com/xkilldash9x/biaslab/internal/reporting"
	"github.com/xkilldash9x/biaslab/internal/simulation"
)

// newRunCmd creates and configures the `run` command.
func newRunCmd(v *viper.Viper) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Runs the noise-only simulation and reports the spurious effect distribution",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their viper keys so the usual precedence holds:
			// flag over env over config file over default.
			bindings := map[string]string{
				"simulation.subjects":      "subjects",
				"simulation.trials":        "trials",
				"simulation.noise_std_dev": "noise",
				"simulation.rollouts":      "rollouts",
				"simulation.policy":        "policy",
				"simulation.workers":       "workers",
				"report.format":            "format",
				"report.output":            "output",
				"report.bins":              "bins",
			}
			for key, flag := range bindings {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				return err
			}

			seed, err := cmd.Flags().GetInt64("seed")
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			// Slice flags do not round-trip through viper cleanly, so the
			// thresholds override is applied directly.
			if cmd.Flags().Changed("thresholds") {
				thresholds, err := cmd.Flags().GetFloat64Slice("thresholds")
				if err != nil {
					return err
				}
				cfg.Report.Thresholds = thresholds
			}

			runID := uuid.New().String()
			logger.Info("Starting simulation run",
				zap.String("runID", runID),
				zap.Int("subjects", cfg.Simulation.Subjects),
				zap.Int("trials", cfg.Simulation.Trials),
				zap.Float64("noise_std_dev", cfg.Simulation.NoiseStdDev),
				zap.Int("rollouts", cfg.Simulation.Rollouts),
				zap.String("policy", string(cfg.Simulation.Policy)),
				zap.Int64("seed", seed),
			)

			engine, err := simulation.New(cfg.Simulation, logger)
			if err != nil {
				return err
			}

			start := time.Now()
			output, err := engine.Run(ctx, simulation.NewSource(seed))
			if err != nil {
				return err
			}
			logger.Info("Simulation finished",
				zap.String("runID", runID),
				zap.Int("rollouts", len(output)),
				zap.Duration("elapsed", time.Since(start)),
			)

			summary, err := reporting.BuildSummary(output.Means(), reporting.Options{
				Bins:       cfg.Report.Bins,
				Thresholds: cfg.Report.Thresholds,
				TailAbove:  cfg.Simulation.Policy == simulation.SelectMax,
				RunID:      runID,
			})
			if err != nil {
				return err
			}

			reporter, err := reporting.New(cfg.Report.Format, cfg.Report.Output)
			if err != nil {
				return err
			}
			defer reporter.Close()
			return reporter.Write(summary)
		},
	}

	runCmd.Flags().Int("subjects", 8, "number of simulated subjects per rollout")
	runCmd.Flags().Int("trials", 7, "number of noise-only conditions per subject")
	runCmd.Flags().Float64("noise", 0.05, "standard deviation of the measurement noise")
	runCmd.Flags().Int("rollouts", 10000, "number of independent experiment repetitions")
	runCmd.Flags().Int64("seed", 0, "random seed (0 derives the seed from the current time)")
	runCmd.Flags().String("policy", "min", "per-subject extremum to keep: min or max")
	runCmd.Flags().Int("workers", 0, "rollout worker pool size (0 runs sequentially)")
	runCmd.Flags().StringP("format", "f", "text", "report format: text or json")
	runCmd.Flags().StringP("output", "o", "stdout", "report destination path, or stdout")
	runCmd.Flags().Int("bins", 40, "histogram bin count")
	runCmd.Flags().Float64Slice("thresholds", []float64{-0.0468, -0.147}, "reference effect sizes to compare against")

	return runCmd
}
