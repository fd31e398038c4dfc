package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addPhraseCmd = &cobra.Command{
	Use:   "add-phrase",
	Short: "Insert a phrase table entry",
	Long:  "Inserts one phrase table entry. Source and target are given in the factored text form `word|factor`, scores as repeated name=value flags.",
	RunE:  runAddPhrase,
}

var (
	addPhraseSource string
	addPhraseTarget string
	addPhraseScores []string
)

func init() {
	addPhraseCmd.Flags().StringVar(&addPhraseSource, "source", "", "Source phrase (required)")
	addPhraseCmd.Flags().StringVar(&addPhraseTarget, "target", "", "Target phrase, empty for a deletion")
	addPhraseCmd.Flags().StringArrayVar(&addPhraseScores, "score", nil, "Feature score as name=value, repeatable")

	if err := addPhraseCmd.MarkFlagRequired("source"); err != nil {
		panic(fmt.Sprintf("failed to mark source flag as required: %v", err))
	}

	rootCmd.AddCommand(addPhraseCmd)
}

func runAddPhrase(cmd *cobra.Command, _ []string) error {
	scores, err := parseScores(addPhraseScores)
	if err != nil {
		return fmt.Errorf("failed to parse scores: %w", err)
	}

	o, err := newOptioner()
	if err != nil {
		return err
	}
	defer o.Close()

	entry, err := o.AddPhrase(addPhraseSource, addPhraseTarget, scores)
	if err != nil {
		return fmt.Errorf("failed to add phrase: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s -> %s\t%s\n", entry.RID, entry.Source, entry.Target, entry.Scores)
	return nil
}
