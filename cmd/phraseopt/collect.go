package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/siherrmann/phraseopt/core/option"
	"github.com/spf13/cobra"
)

var collectCmd = &cobra.Command{
	Use:   "collect [sentence]",
	Short: "Print the translation options of a sentence",
	Long:  "Collects the translation options of every span of the sentence from the phrase store and prints them with their future scores, followed by the future cost of the whole sentence.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCollect,
}

var collectSpans bool

func init() {
	collectCmd.Flags().BoolVarP(&collectSpans, "spans", "s", false, "Print the future cost of every span")

	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	o, err := newOptioner()
	if err != nil {
		return err
	}
	defer o.Close()

	result, err := o.CollectOptions(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("failed to collect options: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, opt := range result.All() {
		fmt.Fprintln(out, option.Format(opt))
	}

	cost := result.FutureCost()
	if collectSpans {
		for start := 0; start < cost.Size(); start++ {
			for end := start; end < cost.Size(); end++ {
				fmt.Fprintf(out, "future[%d..%d] = %s\n", start, end, formatCost(cost.Get(start, end)))
			}
		}
	}
	fmt.Fprintf(out, "future cost: %s\n", formatCost(cost.Get(0, cost.Size()-1)))
	return nil
}

func formatCost(cost float64) string {
	if math.IsInf(cost, -1) {
		return "unreachable"
	}
	return fmt.Sprintf("%.4f", cost)
}
