package option

import (
	"errors"
	"sync"
	"testing"

	"github.com/siherrmann/phraseopt/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var surface = []model.FactorType{model.FactorSurface}

type fixedLM struct {
	perWord float64
	calls   [][]string
}

func (l *fixedLM) Factor() model.FactorType { return model.FactorSurface }
func (l *fixedLM) Order() int               { return 3 }
func (l *fixedLM) Score(words []string) float64 {
	l.calls = append(l.calls, words)
	return l.perWord * float64(len(words))
}

func targetPhrase(text string, scores model.ScoreVector) model.TargetPhrase {
	return model.NewTargetPhrase(model.ParsePhrase(text, surface), scores)
}

func singleStep() Origin {
	return Origin{GraphID: 0, StepID: 0, NumSteps: 1}
}

func TestNewBuilder(t *testing.T) {
	sentence := model.NewSentence("das schwarze haus", surface)

	t.Run("Option keeps range and target phrase", func(t *testing.T) {
		rng := model.NewRange(1, 2)
		tp := targetPhrase("black house", model.ScoreVector{"tm": -1.5})

		o := NewBuilder(rng, tp, sentence, singleStep()).Finalize(nil)

		assert.Equal(t, rng, o.SourceRange())
		assert.Equal(t, tp, o.TargetPhrase())
		assert.Equal(t, 1, o.StartPos())
		assert.Equal(t, 2, o.EndPos())
		assert.Equal(t, rng.Count(), o.SourceSize())
		assert.Equal(t, -1.5, o.Score("tm"))
		require.NotNil(t, o.SourcePhrase())
		assert.Equal(t, "schwarze haus", o.SourcePhrase().String())
	})

	t.Run("Merge counts start at the originating step", func(t *testing.T) {
		b := NewBuilder(model.NewRange(0, 0), targetPhrase("the", nil), nil, Origin{GraphID: 3, StepID: 1, NumSteps: 3})

		assert.Equal(t, []int{0, 1, 0}, b.MergeCounts())
		assert.Equal(t, 3, b.DecodeGraphID())
	})

	t.Run("Without sentence there is no source phrase", func(t *testing.T) {
		o := NewBuilder(model.NewRange(0, 0), targetPhrase("the", nil), nil, singleStep()).Finalize(nil)

		assert.Nil(t, o.SourcePhrase())
	})

	t.Run("Builder does not alias the table entry", func(t *testing.T) {
		tp := targetPhrase("the", model.ScoreVector{"tm": -1})
		b := NewBuilder(model.NewRange(0, 0), tp, nil, singleStep())

		tp.Scores["tm"] = 5
		tp.Words[0][model.FactorSurface] = "a"

		assert.Equal(t, -1.0, b.ScoreBreakdown().Get("tm"))
		assert.Equal(t, "the", b.TargetPhrase().Word(0).Surface())
	})

	t.Run("Step outside decode graph panics", func(t *testing.T) {
		assert.PanicsWithValue(t, "contract violation: step 2 outside decode graph of 2 steps", func() {
			NewBuilder(model.NewRange(0, 0), targetPhrase("the", nil), nil, Origin{StepID: 2, NumSteps: 2})
		})
	})

	t.Run("Range outside sentence panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewBuilder(model.NewRange(2, 3), targetPhrase("the", nil), sentence, singleStep())
		})
	})
}

func TestNewUnknownBuilder(t *testing.T) {
	t.Run("Unknown option has no decode graph", func(t *testing.T) {
		sentence := model.NewSentence("the zyx", surface)
		tp := targetPhrase("zyx", model.ScoreVector{model.FeatureUnknown: -100})

		o := NewUnknownBuilder(model.NewRange(1, 1), tp, sentence).Finalize(nil)

		assert.Equal(t, NoDecodeGraph, o.DecodeGraphID())
		assert.Equal(t, 0, o.NumSteps())
		assert.Equal(t, 0, o.SubRangeCount(0))
		assert.Equal(t, "zyx", o.SourcePhrase().String())
		assert.Equal(t, -100.0, o.Score(model.FeatureUnknown))
	})

	t.Run("Multi word range panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewUnknownBuilder(model.NewRange(0, 1), targetPhrase("x", nil), nil)
		})
	})
}

func TestIsDeletionOption(t *testing.T) {
	t.Run("Empty target phrase is a deletion", func(t *testing.T) {
		o := NewBuilder(model.NewRange(0, 0), model.TargetPhrase{}, nil, singleStep()).Finalize(nil)

		assert.True(t, o.IsDeletionOption())
		assert.Equal(t, 0, o.TargetSize())
		assert.Equal(t, 1, o.SourceSize())
	})

	t.Run("Non-empty target phrase is not a deletion", func(t *testing.T) {
		o := NewBuilder(model.NewRange(0, 0), targetPhrase("le", nil), nil, singleStep()).Finalize(nil)

		assert.False(t, o.IsDeletionOption())
		assert.Equal(t, 1, o.TargetSize())
	})
}

func TestMergeTargetPhrase(t *testing.T) {
	surfacePOS := []model.FactorType{model.FactorSurface, model.FactorPOS}
	pos := []model.FactorType{model.FactorPOS}

	t.Run("Merge copies named factors and adds scores", func(t *testing.T) {
		b := NewBuilder(model.NewRange(0, 1), targetPhrase("black cat", model.ScoreVector{"tm": -1}), nil, Origin{StepID: 0, NumSteps: 2})
		fragment := model.ParsePhrase("noir|JJ chat|NN", surfacePOS)

		err := b.MergeTargetPhrase(fragment, model.ScoreVector{"tm": -0.5, "pos": -0.25}, pos, 1)

		require.NoError(t, err)
		tp := b.TargetPhrase()
		assert.Equal(t, []string{"black", "cat"}, tp.Factors(model.FactorSurface), "Expected surface layer untouched")
		assert.Equal(t, []string{"JJ", "NN"}, tp.Factors(model.FactorPOS))
		assert.Equal(t, model.ScoreVector{"tm": -1.5, "pos": -0.25}, b.ScoreBreakdown())
		assert.Equal(t, []int{1, 1}, b.MergeCounts())
	})

	t.Run("Mismatched word count leaves builder unchanged", func(t *testing.T) {
		b := NewBuilder(model.NewRange(0, 1), targetPhrase("black cat", model.ScoreVector{"tm": -1}), nil, Origin{StepID: 0, NumSteps: 2})
		beforeTarget := b.TargetPhrase()
		beforeScores := b.ScoreBreakdown()
		beforeCounts := b.MergeCounts()

		err := b.MergeTargetPhrase(model.ParsePhrase("x|JJ y|NN z|NN", surfacePOS), model.ScoreVector{"tm": -3}, pos, 1)

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWordCountMismatch))
		assert.Equal(t, beforeTarget, b.TargetPhrase())
		assert.Equal(t, beforeScores, b.ScoreBreakdown())
		assert.Equal(t, beforeCounts, b.MergeCounts())
	})

	t.Run("Invalid factor leaves builder unchanged", func(t *testing.T) {
		b := NewBuilder(model.NewRange(0, 0), targetPhrase("cat", nil), nil, singleStep())
		before := b.TargetPhrase()

		err := b.MergeTargetPhrase(model.ParsePhrase("chat", surface), nil, []model.FactorType{model.FactorType(8)}, 0)

		assert.Error(t, err)
		assert.Equal(t, before, b.TargetPhrase())
		assert.Equal(t, []int{1}, b.MergeCounts())
	})

	t.Run("Merge counts follow the steps they are attributed to", func(t *testing.T) {
		b := NewBuilder(model.NewRange(0, 0), targetPhrase("cat", nil), nil, Origin{StepID: 0, NumSteps: 4})
		fragment := model.ParsePhrase("cat|NN", surfacePOS)

		for _, step := range []int{2, 2, 0, 2} {
			require.NoError(t, b.MergeTargetPhrase(fragment, nil, pos, step))
		}

		o := b.Finalize(nil)
		assert.Equal(t, 2, o.SubRangeCount(0))
		assert.Equal(t, 0, o.SubRangeCount(1))
		assert.Equal(t, 3, o.SubRangeCount(2))
		assert.Equal(t, 0, o.SubRangeCount(3))
		assert.Equal(t, 4, o.NumSteps())
	})

	t.Run("Step outside decode graph panics", func(t *testing.T) {
		b := NewBuilder(model.NewRange(0, 0), targetPhrase("cat", nil), nil, singleStep())

		assert.Panics(t, func() {
			_ = b.MergeTargetPhrase(model.ParsePhrase("cat", surface), nil, surface, 1)
		})
	})
}

func TestMergePhrase(t *testing.T) {
	t.Run("Generation merge leaves merge counts alone", func(t *testing.T) {
		b := NewBuilder(model.NewRange(0, 0), targetPhrase("cats", model.ScoreVector{"tm": -1}), nil, singleStep())
		fragment := model.ParsePhrase("cats|NNS|cat", []model.FactorType{model.FactorSurface, model.FactorPOS, model.FactorLemma})

		err := b.MergePhrase(fragment, model.ScoreVector{model.FeatureGeneration: -0.1}, []model.FactorType{model.FactorLemma})

		require.NoError(t, err)
		assert.Equal(t, "cat", b.TargetPhrase().Word(0).Factor(model.FactorLemma))
		assert.Equal(t, "", b.TargetPhrase().Word(0).Factor(model.FactorPOS))
		assert.Equal(t, -0.1, b.ScoreBreakdown().Get(model.FeatureGeneration))
		assert.Equal(t, []int{1}, b.MergeCounts())
	})

	t.Run("Mismatched word count is rejected", func(t *testing.T) {
		b := NewBuilder(model.NewRange(0, 0), targetPhrase("cats", nil), nil, singleStep())

		err := b.MergePhrase(model.Phrase{}, model.ScoreVector{"x": 1}, surface)

		assert.True(t, errors.Is(err, ErrWordCountMismatch))
		assert.Nil(t, b.ScoreBreakdown())
	})
}

func TestFinalize(t *testing.T) {
	weights := map[string]float64{"tm": 0.5, model.FeatureReordering: 2}

	t.Run("Future score combines all parts", func(t *testing.T) {
		lm := &fixedLM{perWord: -1}
		scorer := &Scorer{Weights: weights, LM: lm, LMWeight: 0.25, WordPenaltyWeight: 0.1, UseReordering: true}
		b := NewBuilder(model.NewRange(0, 1), targetPhrase("black cat", model.ScoreVector{"tm": -2}), nil, singleStep())
		b.CacheReorderingScore("msd", model.ScoreVector{model.FeatureReordering: -0.5})

		o := b.Finalize(scorer)

		// 0.5*-2 + 0.25*-2 + 2*-0.5 + 0.1*-2
		assert.InDelta(t, -2.7, o.FutureScore(), 1e-9)
		assert.Equal(t, -2.0, o.LMEstimate())
		assert.Equal(t, [][]string{{"black", "cat"}}, lm.calls, "Expected LM to see only the phrase words")
	})

	t.Run("Reordering is ignored when disabled", func(t *testing.T) {
		scorer := &Scorer{Weights: weights}
		b := NewBuilder(model.NewRange(0, 0), targetPhrase("cat", model.ScoreVector{"tm": -2}), nil, singleStep())
		b.CacheReorderingScore("msd", model.ScoreVector{model.FeatureReordering: -0.5})

		o := b.Finalize(scorer)

		assert.InDelta(t, -1.0, o.FutureScore(), 1e-9)
		assert.Equal(t, "msd", o.ReorderingProducer())
	})

	t.Run("Missing language model contributes zero", func(t *testing.T) {
		scorer := &Scorer{Weights: weights, LMWeight: 10}

		o := NewBuilder(model.NewRange(0, 0), targetPhrase("cat", model.ScoreVector{"tm": -2}), nil, singleStep()).Finalize(scorer)

		assert.InDelta(t, -1.0, o.FutureScore(), 1e-9)
		assert.Equal(t, 0.0, o.LMEstimate())
	})

	t.Run("Deletion option skips language model", func(t *testing.T) {
		lm := &fixedLM{perWord: -1}
		scorer := &Scorer{Weights: weights, LM: lm, LMWeight: 1}

		NewBuilder(model.NewRange(0, 0), model.TargetPhrase{}, nil, singleStep()).Finalize(scorer)

		assert.Empty(t, lm.calls)
	})

	t.Run("Finalize is deterministic", func(t *testing.T) {
		scorer := &Scorer{Weights: map[string]float64{"a": 0.1, "b": 0.7, "c": 1.3, "d": 3.1}, LM: &fixedLM{perWord: -0.3}, LMWeight: 0.5}
		scores := model.ScoreVector{"a": -0.11, "b": -0.23, "c": -1e-8, "d": -7.5}

		first := NewBuilder(model.NewRange(0, 1), targetPhrase("black cat", scores), nil, singleStep()).Finalize(scorer)
		second := NewBuilder(model.NewRange(3, 4), targetPhrase("black cat", scores.Clone()), nil, singleStep()).Finalize(scorer)

		assert.Equal(t, first.FutureScore(), second.FutureScore())
	})

	t.Run("Second finalize panics", func(t *testing.T) {
		b := NewBuilder(model.NewRange(0, 0), targetPhrase("cat", nil), nil, singleStep())
		b.Finalize(nil)

		assert.PanicsWithValue(t, "contract violation: finalize on finalized option over [0..0]", func() {
			b.Finalize(nil)
		})
	})

	t.Run("Merge after finalize panics", func(t *testing.T) {
		b := NewBuilder(model.NewRange(0, 0), targetPhrase("cat", nil), nil, singleStep())
		b.Finalize(nil)

		assert.Panics(t, func() {
			_ = b.MergeTargetPhrase(model.ParsePhrase("chat", surface), nil, surface, 0)
		})
		assert.Panics(t, func() {
			_ = b.MergePhrase(model.ParsePhrase("chat", surface), nil, surface)
		})
	})

	t.Run("New scorer copies the configuration", func(t *testing.T) {
		config := model.DefaultDecoderConfig()
		scorer := NewScorer(&config, nil)

		config.Weights["tm"] = 42

		assert.Equal(t, 1.0, scorer.Weights["tm"])
		assert.Equal(t, config.LMWeight, scorer.LMWeight)
		assert.True(t, scorer.UseReordering)
	})
}

func TestOverlap(t *testing.T) {
	o := NewBuilder(model.NewRange(2, 4), targetPhrase("x y z", nil), nil, singleStep()).Finalize(nil)

	t.Run("No overlap with covered 0 1 5", func(t *testing.T) {
		coverage := model.NewCoverageBitmap(6)
		coverage.Cover(model.NewRange(0, 1))
		coverage.Cover(model.NewRange(5, 5))

		assert.False(t, o.Overlap(coverage))
	})

	t.Run("Overlap with covered 0 3", func(t *testing.T) {
		coverage := model.NewCoverageBitmap(6)
		coverage.Cover(model.NewRange(0, 0))
		coverage.Cover(model.NewRange(3, 3))

		assert.True(t, o.Overlap(coverage))
	})

	t.Run("Concurrent readers", func(t *testing.T) {
		coverage := model.NewCoverageBitmap(6)
		coverage.Cover(model.NewRange(4, 4))

		var wg sync.WaitGroup
		results := make([]bool, 16)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = o.Overlap(coverage)
				_ = o.ReorderingScore()
			}(i)
		}
		o.CacheReorderingScore("msd", model.ScoreVector{model.FeatureReordering: -1})
		wg.Wait()

		for _, r := range results {
			assert.True(t, r)
		}
	})
}

func TestDuplicate(t *testing.T) {
	sentence := model.NewSentence("a b c d", surface)
	b := NewBuilder(model.NewRange(0, 1), targetPhrase("x y", model.ScoreVector{"tm": -0.7}), sentence, Origin{StepID: 0, NumSteps: 2})
	b.CacheReorderingScore("msd", model.ScoreVector{model.FeatureReordering: -0.3})
	o := b.Finalize(&Scorer{Weights: map[string]float64{"tm": 1}})

	t.Run("With range keeps scores and rebinds range", func(t *testing.T) {
		moved := o.WithRange(model.NewRange(2, 3))

		assert.Equal(t, model.NewRange(2, 3), moved.SourceRange())
		assert.Equal(t, 2, moved.StartPos())
		assert.Equal(t, 3, moved.EndPos())
		assert.Equal(t, o.TargetPhrase(), moved.TargetPhrase())
		assert.Equal(t, o.ScoreBreakdown(), moved.ScoreBreakdown())
		assert.Equal(t, o.ReorderingScore(), moved.ReorderingScore())
		assert.Equal(t, o.FutureScore(), moved.FutureScore())
		assert.Equal(t, model.NewRange(0, 1), o.SourceRange(), "Expected original range untouched")
	})

	t.Run("Clone is unaliased", func(t *testing.T) {
		clone := o.Clone()
		clone.CacheReorderingScore("other", model.ScoreVector{model.FeatureReordering: -9})

		assert.Equal(t, -0.3, o.ReorderingScore().Get(model.FeatureReordering))
		assert.Equal(t, o.SourcePhrase(), clone.SourcePhrase())
		assert.NotSame(t, o.SourcePhrase(), clone.SourcePhrase())
		assert.Equal(t, o.SubRangeCount(0), clone.SubRangeCount(0))
	})

	t.Run("Builder clone is independent", func(t *testing.T) {
		original := NewBuilder(model.NewRange(0, 0), targetPhrase("x", model.ScoreVector{"tm": -1}), sentence, Origin{StepID: 0, NumSteps: 2})
		clone := original.Clone()

		require.NoError(t, clone.MergeTargetPhrase(model.ParsePhrase("x|NN", []model.FactorType{model.FactorSurface, model.FactorPOS}), model.ScoreVector{"tm": -1}, []model.FactorType{model.FactorPOS}, 1))

		assert.Equal(t, []int{1, 0}, original.MergeCounts())
		assert.Equal(t, -1.0, original.ScoreBreakdown().Get("tm"))
		assert.Equal(t, []int{1, 1}, clone.MergeCounts())
	})
}

func TestFormat(t *testing.T) {
	sentence := model.NewSentence("the cat", surface)
	o := NewBuilder(model.NewRange(1, 1), targetPhrase("chat", model.ScoreVector{"tm": -0.2}), sentence, Origin{GraphID: 2, StepID: 0, NumSteps: 1}).
		Finalize(&Scorer{Weights: map[string]float64{"tm": 1}})

	assert.Equal(t, `[1..1] "chat" <- "cat" future=-0.2000 scores={tm=-0.2000} graph=2`, Format(o))
	assert.Equal(t, Format(o), o.String())
}

func TestBlackCat(t *testing.T) {
	sentence := model.NewSentence("the black cat", surface)
	scorer := &Scorer{Weights: map[string]float64{model.FeaturePhraseTable: 1}}

	entries := []struct {
		pos    int
		target string
		score  float64
	}{
		{0, "le", -0.3},
		{1, "noir", -0.4},
		{2, "chat", -0.2},
	}

	options := make([]*Option, len(entries))
	for i, e := range entries {
		tp := targetPhrase(e.target, model.ScoreVector{model.FeaturePhraseTable: e.score})
		options[i] = NewBuilder(model.NewRange(e.pos, e.pos), tp, sentence, singleStep()).Finalize(scorer)
	}

	for i, o := range options {
		assert.False(t, o.IsDeletionOption())
		assert.Equal(t, 1, o.SourceSize())
		assert.Equal(t, entries[i].target, o.TargetWord(0).Surface())
	}

	le, noir, chat := options[0], options[1], options[2]
	assert.Greater(t, chat.FutureScore(), le.FutureScore(), "Expected chat to be best")
	assert.Greater(t, le.FutureScore(), noir.FutureScore(), "Expected noir to be worst")
}
