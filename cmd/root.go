package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bettercollective/embedforge/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "embedforge",
	Short: "Brand-themed widget generator and publisher",
	Long:  "Ingests a spreadsheet of ranked US states or cities, renders an interactive brand-themed HTML widget, and publishes it to a GitHub Pages repo with an iframe embed snippet.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
