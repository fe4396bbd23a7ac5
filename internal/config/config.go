// File: internal/config/config.go
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/biaslab/internal/simulation"
)

// Config holds the entire application configuration. Values are resolved by
// viper with the usual precedence: flags over environment over config file
// over defaults.
type Config struct {
	Logger     LoggerConfig      `mapstructure:"logger" yaml:"logger"`
	Simulation simulation.Config `mapstructure:"simulation" yaml:"simulation"`
	Report     ReportConfig      `mapstructure:"report" yaml:"report"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// ReportConfig configures the reporting collaborator that consumes the
// engine's output.
type ReportConfig struct {
	Format     string    `mapstructure:"format" yaml:"format"`
	Output     string    `mapstructure:"output" yaml:"output"`
	Bins       int       `mapstructure:"bins" yaml:"bins"`
	Thresholds []float64 `mapstructure:"thresholds" yaml:"thresholds"`
}

// SetDefaults initializes default values for all configuration parameters.
// The simulation defaults reproduce the motivating scenario: 8 subjects, 7
// conditions, 5% measurement noise, 10000 rollouts.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "biaslab")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Simulation --
	v.SetDefault("simulation.subjects", 8)
	v.SetDefault("simulation.trials", 7)
	v.SetDefault("simulation.noise_std_dev", 0.05)
	v.SetDefault("simulation.rollouts", 10000)
	v.SetDefault("simulation.policy", string(simulation.SelectMin))
	v.SetDefault("simulation.workers", 0)

	// -- Report --
	v.SetDefault("report.format", "text")
	v.SetDefault("report.output", "stdout")
	v.SetDefault("report.bins", 40)
	v.SetDefault("report.thresholds", []float64{-0.0468, -0.147})
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with the defaults above.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a validated configuration from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values. Simulation parameters
// are validated by the engine's own rules so the CLI rejects bad input with
// the same message the engine would.
func (c *Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	switch c.Report.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("report.format must be \"text\" or \"json\", got %q", c.Report.Format)
	}
	if c.Report.Bins < 0 {
		return fmt.Errorf("report.bins must be >= 0")
	}
	return nil
}
