// Command rulesctl is a small demonstration CLI for the rules engine: it
// loads a customer-loyalty fact set from YAML, evaluates the engine's
// bundled example rule set against it, and prints a JSON summary of the
// result (derived facts, verdict, skips and counters; the trace is not
// printed).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rulesengine/internal/appconfig"
	"rulesengine/internal/obslog"
)

var (
	configPath string
	verbose    bool
	logger     *zap.Logger
	appCfg     *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:   "rulesctl",
	Short: "Evaluate a forward-chaining production rules engine",
	Long: `rulesctl drives the rules engine's bundled customer-loyalty example:
Customer facts derive VipStatus and Discount facts until fixpoint, then a
cart-total validator runs against the final working memory.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconfig.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Verbose = true
		}
		appCfg = cfg

		logger, err = obslog.New(cfg.Logging.Verbose)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "rulesctl.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(runCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
