package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/siherrmann/phraseopt/core/collection"
	"github.com/siherrmann/phraseopt/core/lm"
	"github.com/siherrmann/phraseopt/core/option"
	"github.com/siherrmann/phraseopt/core/pipeline"
	"github.com/siherrmann/phraseopt/helper"
	"github.com/siherrmann/phraseopt/model"
)

// Two step graph without a database: lemmas are translated first,
// the surface form is generated from the translated lemma.
func main() {
	logger := helper.NewLogger(os.Stdout, slog.LevelDebug)

	lemma := []model.FactorType{model.FactorLemma}
	surface := []model.FactorType{model.FactorSurface}

	translations := pipeline.MapLookup(map[string][]model.TargetPhrase{
		"house": {
			model.NewTargetPhrase(model.ParsePhrase("haus", lemma), model.ScoreVector{model.FeaturePhraseTable: -0.1}),
		},
		"small house": {
			model.NewTargetPhrase(model.ParsePhrase("klein haus", lemma), model.ScoreVector{model.FeaturePhraseTable: -0.3}),
		},
		"small": {
			model.NewTargetPhrase(model.ParsePhrase("klein", lemma), model.ScoreVector{model.FeaturePhraseTable: -0.2}),
		},
	})
	generations := pipeline.MapGeneration(map[string][]pipeline.Generation{
		"haus":  {{Output: model.Word{"haus"}, Scores: model.ScoreVector{model.FeatureGeneration: -0.05}}},
		"klein": {{Output: model.Word{"kleines"}, Scores: model.ScoreVector{model.FeatureGeneration: -0.4}}, {Output: model.Word{"klein"}, Scores: model.ScoreVector{model.FeatureGeneration: -0.6}}},
	})

	graph := pipeline.NewDecodeGraph(0,
		pipeline.TranslationStep(lemma, lemma, translations),
		pipeline.GenerationStep(lemma, surface, generations),
	)
	graph.SetLogger(logger)

	languageModel := lm.NewModel(model.FactorSurface, 2, lm.DefaultUnknownLogProb)
	languageModel.Add([]string{"kleines"}, -1.2, -0.3)
	languageModel.Add([]string{"klein"}, -1.5, -0.3)
	languageModel.Add([]string{"haus"}, -0.9, 0)
	languageModel.Add([]string{"kleines", "haus"}, -0.2, 0)

	config := model.DefaultDecoderConfig()
	config.InputFactors = lemma
	config.OutputFactors = lemma
	config.CacheSize = 0

	collector, err := collection.NewCollector(&config, option.NewScorer(&config, languageModel), []*pipeline.DecodeGraph{graph}, nil, logger)
	if err != nil {
		log.Fatalf("Failed to create collector: %v", err)
	}

	sentence := model.NewSentence("a|a|a small|JJ|small houses|NNS|house", []model.FactorType{model.FactorSurface, model.FactorPOS, model.FactorLemma})
	result, err := collector.Collect(context.Background(), sentence)
	if err != nil {
		log.Fatalf("Failed to collect options: %v", err)
	}

	for _, opt := range result.All() {
		fmt.Println(opt)
	}
	fmt.Printf("future cost: %.4f\n", result.FutureCost().Get(0, sentence.Size()-1))
}
