package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"decprobe/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Loaded configuration and logger, shared by subcommands
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "decprobe",
	Short: "decprobe - exhaustive fixed-point decimal round-trip verifier",
	Long: `decprobe exhaustively verifies that every fixed-point decimal in a
configured range survives a serialize/deserialize round trip on this
platform without losing precision.

Each value is reconstructed from an integer index, written to canonical
fixed-point text, re-parsed, pushed through a JSON transport cycle, and
compared against the original both numerically and textually. The index
space is partitioned across parallel workers; the first mismatch fails
the run and reports the offending index with both observed values.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		// Initialize logger from config; --verbose forces debug
		zapCfg := zap.NewProductionConfig()
		if cfg.Logging.Format == "console" {
			zapCfg = zap.NewDevelopmentConfig()
		}
		if lvl, lvlErr := zapcore.ParseLevel(cfg.Logging.Level); lvlErr == nil {
			zapCfg.Level = zap.NewAtomicLevelAt(lvl)
		}
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "decprobe.yaml", "Path to YAML config file")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(limitsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
