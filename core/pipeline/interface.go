package pipeline

import (
	"context"

	"github.com/siherrmann/phraseopt/model"
)

// TranslateFunc returns the target phrases a source key translates to.
// The key is the source phrase formatted with the step's input factors.
type TranslateFunc func(ctx context.Context, source string) ([]model.TargetPhrase, error)

// GenerateFunc returns the words a single target word can generate.
// The key is the word formatted with the step's input factors.
type GenerateFunc func(ctx context.Context, input string) ([]Generation, error)

// Generation is one output of a generation step for a single word
type Generation struct {
	Output model.Word
	Scores model.ScoreVector
}

// StepType distinguishes translation from generation steps
type StepType int

const (
	StepTranslation StepType = iota
	StepGeneration
)

func (t StepType) String() string {
	if t == StepGeneration {
		return "generation"
	}
	return "translation"
}

// Step is one stage of a decode graph
type Step struct {
	Type          StepType
	InputFactors  []model.FactorType
	OutputFactors []model.FactorType
	Translate     TranslateFunc // Translation steps
	Generate      GenerateFunc  // Generation steps
}

// TranslationStep creates a step translating source factors into target factors
func TranslationStep(input, output []model.FactorType, translate TranslateFunc) Step {
	return Step{
		Type:          StepTranslation,
		InputFactors:  input,
		OutputFactors: output,
		Translate:     translate,
	}
}

// GenerationStep creates a step generating target factors from other target factors
func GenerationStep(input, output []model.FactorType, generate GenerateFunc) Step {
	return Step{
		Type:          StepGeneration,
		InputFactors:  input,
		OutputFactors: output,
		Generate:      generate,
	}
}

// PhraseSelector looks up stored phrase-table entries by source key
type PhraseSelector interface {
	SelectPhrasesBySource(ctx context.Context, source string, limit int) ([]*model.PhraseEntry, error)
}

// GenerationSelector looks up stored generation-table entries by input key
type GenerationSelector interface {
	SelectGenerationsByInput(ctx context.Context, input string, limit int) ([]*model.GenerationEntry, error)
}
