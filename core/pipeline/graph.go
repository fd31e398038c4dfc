package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/siherrmann/phraseopt/core/option"
	"github.com/siherrmann/phraseopt/helper"
	"github.com/siherrmann/phraseopt/model"
)

// DefaultMaxPartialOptions caps the partial options a graph keeps between steps
const DefaultMaxPartialOptions = 10000

// DecodeGraph is an ordered sequence of translation and generation steps
// composing the factors of one option. The first step must be a translation step.
type DecodeGraph struct {
	ID                int
	Steps             []Step
	MaxPartialOptions int
	log               *slog.Logger
}

// NewDecodeGraph creates a decode graph with the given steps
func NewDecodeGraph(id int, steps ...Step) *DecodeGraph {
	return &DecodeGraph{
		ID:                id,
		Steps:             steps,
		MaxPartialOptions: DefaultMaxPartialOptions,
		log:               slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger used for skipped and capped partial options
func (g *DecodeGraph) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.log = logger
	}
}

// Validate checks the step sequence
func (g *DecodeGraph) Validate() error {
	if len(g.Steps) == 0 {
		return fmt.Errorf("decode graph %d has no steps", g.ID)
	}
	if g.Steps[0].Type != StepTranslation {
		return fmt.Errorf("decode graph %d must start with a translation step", g.ID)
	}
	for i, step := range g.Steps {
		if step.Type == StepTranslation && step.Translate == nil {
			return fmt.Errorf("decode graph %d step %d has no translate function", g.ID, i)
		}
		if step.Type == StepGeneration && step.Generate == nil {
			return fmt.Errorf("decode graph %d step %d has no generate function", g.ID, i)
		}
		if err := model.ValidateFactors(step.InputFactors); err != nil {
			return fmt.Errorf("decode graph %d step %d: %w", g.ID, i, err)
		}
		if err := model.ValidateFactors(step.OutputFactors); err != nil {
			return fmt.Errorf("decode graph %d step %d: %w", g.ID, i, err)
		}
	}
	return nil
}

// Process runs every step of the graph on the source words covered by rng
// and returns the builders that survived all steps, ready to be finalized.
func (g *DecodeGraph) Process(ctx context.Context, sentence *model.Sentence, rng model.Range) ([]*option.Builder, error) {
	if err := g.Validate(); err != nil {
		return nil, helper.NewError("validate decode graph", err)
	}

	source, err := sentence.SubPhrase(rng)
	if err != nil {
		return nil, helper.NewError("source phrase", err)
	}

	partial, err := g.initialStep(ctx, sentence, source, rng)
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(g.Steps) && len(partial) > 0; i++ {
		if err := ctx.Err(); err != nil {
			return nil, helper.NewError("process decode graph", err)
		}

		step := g.Steps[i]
		switch step.Type {
		case StepTranslation:
			partial, err = g.translationStep(ctx, step, i, source, partial)
		case StepGeneration:
			partial, err = g.generationStep(ctx, step, partial)
		}
		if err != nil {
			return nil, err
		}
	}

	return partial, nil
}

func (g *DecodeGraph) initialStep(ctx context.Context, sentence *model.Sentence, source model.Phrase, rng model.Range) ([]*option.Builder, error) {
	step := g.Steps[0]
	targets, err := step.Translate(ctx, source.Key(step.InputFactors))
	if err != nil {
		return nil, helper.NewError("translate", err)
	}

	origin := option.Origin{GraphID: g.ID, StepID: 0, NumSteps: len(g.Steps)}
	builders := make([]*option.Builder, 0, len(targets))
	for _, tp := range targets {
		builders = append(builders, option.NewBuilder(rng, tp.Project(step.OutputFactors), sentence, origin))
		if len(builders) >= g.maxPartial() {
			g.log.Warn("Partial options capped", slog.Int("graph", g.ID), slog.String("range", rng.String()))
			break
		}
	}
	return builders, nil
}

func (g *DecodeGraph) translationStep(ctx context.Context, step Step, stepID int, source model.Phrase, partial []*option.Builder) ([]*option.Builder, error) {
	targets, err := step.Translate(ctx, source.Key(step.InputFactors))
	if err != nil {
		return nil, helper.NewError("translate", err)
	}

	var next []*option.Builder
	for _, b := range partial {
		current := b.TargetPhrase()
		for _, tp := range targets {
			if tp.Size() == current.Size() && !current.IsCompatible(tp.Phrase, step.OutputFactors) {
				continue
			}

			merged := b.Clone()
			err := merged.MergeTargetPhrase(tp.Phrase, tp.Scores, step.OutputFactors, stepID)
			if errors.Is(err, option.ErrWordCountMismatch) {
				g.log.Debug("Skipped incompatible fragment", slog.Int("graph", g.ID), slog.Int("step", stepID), slog.String("error", err.Error()))
				continue
			}
			if err != nil {
				return nil, helper.NewError("merge target phrase", err)
			}

			next = append(next, merged)
			if len(next) >= g.maxPartial() {
				g.log.Warn("Partial options capped", slog.Int("graph", g.ID), slog.Int("step", stepID))
				return next, nil
			}
		}
	}
	return next, nil
}

func (g *DecodeGraph) generationStep(ctx context.Context, step Step, partial []*option.Builder) ([]*option.Builder, error) {
	var next []*option.Builder
	for _, b := range partial {
		current := b.TargetPhrase()

		alternatives := make([][]Generation, current.Size())
		complete := true
		for i, w := range current.Words {
			gens, err := step.Generate(ctx, w.Format(step.InputFactors))
			if err != nil {
				return nil, helper.NewError("generate", err)
			}
			if len(gens) == 0 {
				complete = false
				break
			}
			alternatives[i] = gens
		}
		if !complete {
			continue
		}

		for _, combination := range combinations(alternatives, g.maxPartial()-len(next)) {
			fragment := model.Phrase{Words: make([]model.Word, len(combination))}
			var delta model.ScoreVector
			for i, gen := range combination {
				fragment.Words[i] = gen.Output
				delta.Add(gen.Scores)
			}

			merged := b.Clone()
			if err := merged.MergePhrase(fragment, delta, step.OutputFactors); err != nil {
				return nil, helper.NewError("merge phrase", err)
			}
			next = append(next, merged)
		}

		if len(next) >= g.maxPartial() {
			g.log.Warn("Partial options capped", slog.Int("graph", g.ID))
			return next, nil
		}
	}
	return next, nil
}

// combinations returns up to limit cartesian products of the per-word alternatives.
// A phrase without words has exactly one, empty, combination.
func combinations(alternatives [][]Generation, limit int) [][]Generation {
	result := [][]Generation{{}}
	for _, gens := range alternatives {
		var expanded [][]Generation
		for _, prefix := range result {
			for _, gen := range gens {
				if len(expanded) >= limit {
					break
				}
				combination := make([]Generation, len(prefix)+1)
				copy(combination, prefix)
				combination[len(prefix)] = gen
				expanded = append(expanded, combination)
			}
		}
		result = expanded
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

func (g *DecodeGraph) maxPartial() int {
	if g.MaxPartialOptions <= 0 {
		return DefaultMaxPartialOptions
	}
	return g.MaxPartialOptions
}
