package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/i474232898/farm-dashboard/internal/config"
)

var (
	// flagJSON switches command output to JSON.
	flagJSON bool

	// cfg and logger are initialized by the root command before any subcommand runs.
	cfg    *config.AppConfig
	logger *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "farm-dashboard",
	Short: "Crop records, weather, market prices and a farming assistant",
	Long: `farm-dashboard keeps a local record of planted crops and brings together
current weather, sample market prices and a question-answering assistant,
either over an HTTP API (serve) or directly from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger, err = newLogger(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
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
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cropsCmd)
	rootCmd.AddCommand(weatherCmd)
	rootCmd.AddCommand(pricesCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(predictCmd)
}
