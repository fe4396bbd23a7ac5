// File: internal/config/config_test.go
package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/biaslab/internal/config"
	"github.com/xkilldash9x/biaslab/internal/simulation"
)

// TestNewDefaultConfig pins the canonical defaults from the motivating
// scenario.
func TestNewDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewDefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, 8, cfg.Simulation.Subjects)
	assert.Equal(t, 7, cfg.Simulation.Trials)
	assert.Equal(t, 0.05, cfg.Simulation.NoiseStdDev)
	assert.Equal(t, 10000, cfg.Simulation.Rollouts)
	assert.Equal(t, simulation.SelectMin, cfg.Simulation.Policy)

	assert.Equal(t, "text", cfg.Report.Format)
	assert.Equal(t, "stdout", cfg.Report.Output)
	assert.Equal(t, []float64{-0.0468, -0.147}, cfg.Report.Thresholds)

	assert.Equal(t, "biaslab", cfg.Logger.ServiceName)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfigFromViper_Overrides(t *testing.T) {
	t.Parallel()

	v := viper.New()
	config.SetDefaults(v)
	v.Set("simulation.subjects", 12)
	v.Set("simulation.policy", "max")
	v.Set("report.format", "json")

	cfg, err := config.NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Simulation.Subjects)
	assert.Equal(t, simulation.SelectMax, cfg.Simulation.Policy)
	assert.Equal(t, "json", cfg.Report.Format)
}

func TestNewConfigFromViper_RejectsInvalidSimulation(t *testing.T) {
	t.Parallel()

	v := viper.New()
	config.SetDefaults(v)
	v.Set("simulation.rollouts", 0)

	cfg, err := config.NewConfigFromViper(v)
	require.Error(t, err)
	assert.Nil(t, cfg)

	// The engine's own error taxonomy surfaces through the CLI config.
	var cfgErr *simulation.InvalidConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "rollouts", cfgErr.Field)
}

func TestConfig_Validate_ReportFormat(t *testing.T) {
	t.Parallel()

	cfg := config.NewDefaultConfig()
	cfg.Report.Format = "yaml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report.format")
}
