package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "jobagent",
	Short: "AI job-application form filler",
	Long:  "Plans how to fill web job-application forms: classifies every field into a fill strategy with an AI model, generates values from the applicant profile, and reports an execution plan.",
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
