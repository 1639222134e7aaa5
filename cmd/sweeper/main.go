// Package main implements the sweeper CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"order-sweeper/internal/core/config"
	"order-sweeper/internal/core/logger"
)

var (
	// Global flags
	cfgPath  string
	logLevel string

	// Loaded configuration, available to every subcommand.
	cfg *config.Config
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "Order status sweeper for the du storefront tracking form",
	Long: `sweeper drives the public order-tracking form to resolve order numbers
against a sequence of candidate customer identifiers.

It runs unattended batches with checkpoint/resume (sweep), resolves a single
order (track), rebuilds tabular exports from archived page dumps (convert),
and serves a read-only status API over the current batch (serve).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Logging.Level
		if logLevel != "" {
			level = logLevel
		}
		if err := logger.Init(cfg.Logging.Environment, level); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "Directory containing config.json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
