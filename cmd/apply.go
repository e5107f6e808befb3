package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/executor"
	"github.com/tlweave2/AI-Job-Application-Agent/internal/form"
)

var (
	applyForm    string
	applyOffline bool
	applySubmit  bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Plan a form and drive the dry-run executor over the result",
	Long:  "Runs the fill pipeline, then walks the plan through the dry-run executor. --submit requests submission; it is still withheld unless the plan is submit-ready and every required field filled.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initFill(fillMode(applyOffline))
		if err != nil {
			return err
		}

		f, err := form.Load(applyForm)
		if err != nil {
			return err
		}

		plan, err := env.newRunner().Run(ctx, f)
		if err != nil {
			return err
		}

		report, err := executor.ApplyPlan(ctx, executor.DryRun{}, plan, executor.Options{Submit: applySubmit})
		if err != nil {
			return err
		}

		zap.L().Info("apply complete",
			zap.String("company", plan.Company),
			zap.Int("filled", report.Filled),
			zap.Int("failed", report.Failed),
			zap.Bool("submitted", report.Submitted),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	applyCmd.Flags().StringVar(&applyForm, "form", "", "form descriptor JSON file (required)")
	applyCmd.Flags().BoolVar(&applyOffline, "offline", false, "use the deterministic stub model, no API key needed")
	applyCmd.Flags().BoolVar(&applySubmit, "submit", false, "request submission after filling")
	_ = applyCmd.MarkFlagRequired("form")
	rootCmd.AddCommand(applyCmd)
}
