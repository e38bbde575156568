package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/kitchen/internal/cli"
	"github.com/aretw0/kitchen/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kitchen",
	Short: "Kitchen Helper is a voice-driven thermometer assistant",
	Long: `Kitchen Helper walks a cook through temperature-sensitive recipes,
configuring a connected thermometer's alarms and timers at every step.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (YAML); defaults to $"+config.EnvConfigFile)
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	config.AddFlags(rootCmd.PersistentFlags())
}

// loadConfig layers file, environment and flags.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	logger, err := cli.NewLogger(cfg.LogLevel, debug)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// buildRuntime loads the configuration and wires the engine.
func buildRuntime(cmd *cobra.Command) (*cli.Runtime, *slog.Logger, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	rt, err := cli.Build(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return rt, logger, nil
}
