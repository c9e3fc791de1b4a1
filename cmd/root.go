package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/linkmagico/chatbot/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "linkmagico",
	Short: "Landing-page extraction and sales chatbot",
	Long:  "Extracts structured marketing content from landing pages and drives a conversational sales agent over it, with deterministic fallbacks when fetching or AI generation fail.",
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
