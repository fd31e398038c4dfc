package option

import (
	"github.com/siherrmann/phraseopt/model"
)

// LanguageModel scores a target word sequence in isolation.
// Score returns a log probability of the words read from the model's factor.
type LanguageModel interface {
	Factor() model.FactorType
	Order() int
	Score(words []string) float64
}

// Scorer carries everything Finalize needs to compute the future score.
// A nil LM contributes zero.
type Scorer struct {
	Weights           map[string]float64
	LM                LanguageModel
	LMWeight          float64
	WordPenaltyWeight float64
	UseReordering     bool
}

// NewScorer creates a scorer from the decoder configuration
func NewScorer(config *model.DecoderConfig, lm LanguageModel) *Scorer {
	weights := make(map[string]float64, len(config.Weights))
	for name, weight := range config.Weights {
		weights[name] = weight
	}

	return &Scorer{
		Weights:           weights,
		LM:                lm,
		LMWeight:          config.LMWeight,
		WordPenaltyWeight: config.WordPenaltyWeight,
		UseReordering:     config.UseReorderingInFutureCost,
	}
}

// lmEstimate scores the phrase words on their own, without sentence context
func (s *Scorer) lmEstimate(target model.Phrase) float64 {
	if s == nil || s.LM == nil || target.Size() == 0 {
		return 0
	}
	return s.LM.Score(target.Factors(s.LM.Factor()))
}

// futureScore combines the weighted breakdown, the phrase-local LM estimate,
// the cached reordering scores and the word penalty.
func (s *Scorer) futureScore(breakdown, reordering model.ScoreVector, lmEstimate float64, targetSize int) float64 {
	if s == nil {
		return 0
	}

	future := breakdown.InnerProduct(s.Weights)
	future += s.LMWeight * lmEstimate
	if s.UseReordering && reordering != nil {
		future += reordering.InnerProduct(s.Weights)
	}
	future += s.WordPenaltyWeight * -float64(targetSize)
	return future
}
