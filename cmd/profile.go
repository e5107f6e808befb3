package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect the loaded applicant profile",
}

var profileDigestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Print the attribute digest and knowledge-doc inventory",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := profile.Load(cfg.Profile.Path)
		if err != nil {
			return err
		}

		fmt.Printf("Profile: %s\n\n", cfg.Profile.Path)
		fmt.Printf("Attributes (%d):\n%s\n\n", store.Len(), store.Summary())

		docs := store.Documents()
		fmt.Printf("Knowledge documents (%d):\n", len(docs))
		for _, doc := range docs {
			fmt.Printf("- %s (%d chars)\n", doc.Topic, len(doc.Content))
		}
		return nil
	},
}

var profileMatchCmd = &cobra.Command{
	Use:   "match <label>",
	Short: "Show which attribute a field label would map to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := profile.Load(cfg.Profile.Path)
		if err != nil {
			return err
		}

		match, ok := store.BestMatch(args[0], cfg.Fill.MappingThreshold)
		if !ok {
			fmt.Printf("no attribute clears threshold %.2f for %q\n", cfg.Fill.MappingThreshold, args[0])
			return nil
		}

		fmt.Printf("%s = %s (score %.2f)\n", match.Key, match.Value, match.Score)
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileDigestCmd, profileMatchCmd)
	rootCmd.AddCommand(profileCmd)
}
