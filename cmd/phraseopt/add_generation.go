package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addGenerationCmd = &cobra.Command{
	Use:   "add-generation",
	Short: "Insert a generation table entry",
	Long:  "Inserts one generation table entry mapping the generation input factors of a word to its generation output factors.",
	RunE:  runAddGeneration,
}

var (
	addGenerationInput  string
	addGenerationOutput string
	addGenerationScores []string
)

func init() {
	addGenerationCmd.Flags().StringVar(&addGenerationInput, "input", "", "Input factors of the word (required)")
	addGenerationCmd.Flags().StringVar(&addGenerationOutput, "output", "", "Generated factors of the word (required)")
	addGenerationCmd.Flags().StringArrayVar(&addGenerationScores, "score", nil, "Feature score as name=value, repeatable")

	if err := addGenerationCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}
	if err := addGenerationCmd.MarkFlagRequired("output"); err != nil {
		panic(fmt.Sprintf("failed to mark output flag as required: %v", err))
	}

	rootCmd.AddCommand(addGenerationCmd)
}

func runAddGeneration(cmd *cobra.Command, _ []string) error {
	scores, err := parseScores(addGenerationScores)
	if err != nil {
		return fmt.Errorf("failed to parse scores: %w", err)
	}

	o, err := newOptioner()
	if err != nil {
		return err
	}
	defer o.Close()

	entry, err := o.AddGeneration(addGenerationInput, addGenerationOutput, scores)
	if err != nil {
		return fmt.Errorf("failed to add generation: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s -> %s\t%s\n", entry.RID, entry.Input, entry.Output, entry.Scores)
	return nil
}
