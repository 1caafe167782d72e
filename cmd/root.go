package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voiceorder/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "voiceorder",
	Short: "Voice-dictated sales order entry",
	Long:  "Parses Italian speech-recognition transcripts into structured sales orders, validates them against the product and customer catalog and resolves package-size ambiguities.",
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
