package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/form"
	"github.com/tlweave2/AI-Job-Application-Agent/internal/pipeline"
)

var (
	analyzeForm    string
	analyzeOffline bool
	analyzeJSON    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Plan how a form would be filled and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initFill(fillMode(analyzeOffline))
		if err != nil {
			return err
		}

		f, err := form.Load(analyzeForm)
		if err != nil {
			return err
		}

		plan, err := env.newRunner().Run(cmd.Context(), f)
		if err != nil {
			return err
		}

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(plan)
		}

		fmt.Print(pipeline.FormatReport(plan))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeForm, "form", "", "form descriptor JSON file (required)")
	analyzeCmd.Flags().BoolVar(&analyzeOffline, "offline", false, "use the deterministic stub model, no API key needed")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the raw plan as JSON instead of the report")
	_ = analyzeCmd.MarkFlagRequired("form")
	rootCmd.AddCommand(analyzeCmd)
}
