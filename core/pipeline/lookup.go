package pipeline

import (
	"context"

	"github.com/siherrmann/phraseopt/helper"
	"github.com/siherrmann/phraseopt/model"
)

// MapLookup creates a translation function backed by an in-memory phrase table
func MapLookup(table map[string][]model.TargetPhrase) TranslateFunc {
	return func(ctx context.Context, source string) ([]model.TargetPhrase, error) {
		entries := table[source]
		result := make([]model.TargetPhrase, len(entries))
		for i, tp := range entries {
			result[i] = tp.Clone()
		}
		return result, nil
	}
}

// TableLookup creates a translation function backed by the phrase store.
// At most limit entries are returned per source key, best first.
func TableLookup(selector PhraseSelector, limit int) TranslateFunc {
	return func(ctx context.Context, source string) ([]model.TargetPhrase, error) {
		entries, err := selector.SelectPhrasesBySource(ctx, source, limit)
		if err != nil {
			return nil, helper.NewError("select phrases", err)
		}

		result := make([]model.TargetPhrase, len(entries))
		for i, entry := range entries {
			result[i] = entry.TargetPhrase()
		}
		return result, nil
	}
}

// MapGeneration creates a generation function backed by an in-memory generation table
func MapGeneration(table map[string][]Generation) GenerateFunc {
	return func(ctx context.Context, input string) ([]Generation, error) {
		entries := table[input]
		result := make([]Generation, len(entries))
		for i, g := range entries {
			result[i] = Generation{Output: g.Output, Scores: g.Scores.Clone()}
		}
		return result, nil
	}
}

// TableGeneration creates a generation function backed by the generation store
func TableGeneration(selector GenerationSelector, limit int) GenerateFunc {
	return func(ctx context.Context, input string) ([]Generation, error) {
		entries, err := selector.SelectGenerationsByInput(ctx, input, limit)
		if err != nil {
			return nil, helper.NewError("select generations", err)
		}

		result := make([]Generation, len(entries))
		for i, entry := range entries {
			result[i] = Generation{Output: entry.Output, Scores: entry.Scores.Clone()}
		}
		return result, nil
	}
}
