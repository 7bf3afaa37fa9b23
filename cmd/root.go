package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "prospect-cli",
	Short:        "Local business prospecting from Google search results",
	Long:         "Searches Google for a business type in a location, merges ads, map listings and organic results into one record per business, checks each website for marketing gaps and ranks the prospects.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlagOverrides(cmd, c)
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		zap.L().Debug("config loaded",
			zap.String("store", cfg.Store.Driver),
			zap.String("reference", cfg.Reference.Path),
		)
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = zap.L().Sync()
	},
}

// applyFlagOverrides lets persistent flags win over file and environment.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	if f := cmd.Flag("log-level"); f != nil && f.Changed {
		c.Log.Level = f.Value.String()
	}
	if f := cmd.Flag("db"); f != nil && f.Changed {
		c.Store.DatabaseURL = f.Value.String()
	}
	if f := cmd.Flag("reference"); f != nil && f.Changed {
		c.Reference.Path = f.Value.String()
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("db", "", "database path or URL (overrides store.database_url)")
	rootCmd.PersistentFlags().String("reference", "", "reference data override file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
