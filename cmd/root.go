// File: cmd/root.go
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/biaslab/internal/config"
	"github.com/xkilldash9x/biaslab/internal/observability"
)

// NewRootCmd builds the root command and its subcommands around a fresh
// viper instance, so tests can construct isolated command trees.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "biaslab",
		Short: "biaslab measures how picking each subject's best condition manufactures an effect from pure noise.",
		Long: `biaslab is a Monte Carlo demonstration of a common experimental-design flaw:
simulate subjects measured under several conditions of pure noise, keep the
seemingly best condition per subject, average those picks across subjects,
and repeat. The resulting distribution shows how large an entirely spurious
"effect" this selection step produces, and how often it reaches published
effect sizes.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Runs before any subcommand, setting up config and logging.
			if err := initializeConfig(v, cfgFile); err != nil {
				return err
			}

			var cfg config.Config
			if err := v.Unmarshal(&cfg); err != nil {
				// Fall back to a sane logger so the error itself gets logged.
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "biaslab"})
				return fmt.Errorf("failed to unmarshal config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("Starting biaslab", zap.String("version", Version))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./biaslab.yaml)")
	rootCmd.AddCommand(newRunCmd(v))
	return rootCmd
}

// Execute runs the root command. It is the sole entry point used by main.
func Execute() {
	defer observability.Sync()
	if err := NewRootCmd().Execute(); err != nil {
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// initializeConfig wires defaults, the optional config file, and BIASLAB_*
// environment variables into the given viper instance.
func initializeConfig(v *viper.Viper, cfgFile string) error {
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("biaslab")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("BIASLAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and env vars apply.
	}
	return nil
}
