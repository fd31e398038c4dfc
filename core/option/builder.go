package option

import (
	"fmt"

	"github.com/siherrmann/phraseopt/model"
)

// Origin identifies the decode graph step a table match came from
type Origin struct {
	GraphID  int
	StepID   int
	NumSteps int
}

// Builder is an option still being composed by a decode graph.
// It is owned by a single goroutine until Finalize turns it into an Option.
type Builder struct {
	rng           model.Range
	target        model.TargetPhrase
	source        *model.Phrase
	breakdown     model.ScoreVector
	reordering    *reorderingSlot
	decodeGraphID int
	mergeCounts   []int
	finalized     bool
}

// NewBuilder creates a builder for a phrase-table match of tp over rng.
// The breakdown is seeded from the table scores and the originating step counts one merge.
// When sentence is given, the covered source words are kept as source phrase.
func NewBuilder(rng model.Range, tp model.TargetPhrase, sentence *model.Sentence, origin Origin) *Builder {
	if origin.NumSteps < 1 || origin.StepID < 0 || origin.StepID >= origin.NumSteps {
		contractViolation("step %d outside decode graph of %d steps", origin.StepID, origin.NumSteps)
	}

	b := &Builder{
		rng:           rng,
		target:        tp.Clone(),
		source:        sourcePhrase(rng, sentence),
		breakdown:     tp.Scores.Clone(),
		decodeGraphID: origin.GraphID,
		mergeCounts:   make([]int, origin.NumSteps),
	}
	b.mergeCounts[origin.StepID] = 1
	return b
}

// NewUnknownBuilder creates a pass-through builder for a single source word no table covers.
// It carries no decode graph bookkeeping.
func NewUnknownBuilder(rng model.Range, tp model.TargetPhrase, sentence *model.Sentence) *Builder {
	if rng.Count() != 1 {
		contractViolation("unknown word option over %s must cover one position", rng)
	}

	return &Builder{
		rng:           rng,
		target:        tp.Clone(),
		source:        sourcePhrase(rng, sentence),
		breakdown:     tp.Scores.Clone(),
		decodeGraphID: NoDecodeGraph,
	}
}

func sourcePhrase(rng model.Range, sentence *model.Sentence) *model.Phrase {
	if sentence == nil {
		return nil
	}
	phrase, err := sentence.SubPhrase(rng)
	if err != nil {
		contractViolation("%v", err)
	}
	return &phrase
}

// Clone returns an independent builder with the same content
func (b *Builder) Clone() *Builder {
	b.mustCompose("clone")

	return &Builder{
		rng:           b.rng,
		target:        b.target.Clone(),
		source:        clonePhrase(b.source),
		breakdown:     b.breakdown.Clone(),
		reordering:    b.reordering.clone(),
		decodeGraphID: b.decodeGraphID,
		mergeCounts:   cloneCounts(b.mergeCounts),
	}
}

// MergeTargetPhrase merges the given factors of a translation step fragment into the target phrase,
// adds delta to the score breakdown and counts one merge for stepID.
// The word counts are compared first: on mismatch nothing is written and ErrWordCountMismatch is returned.
func (b *Builder) MergeTargetPhrase(fragment model.Phrase, delta model.ScoreVector, factors []model.FactorType, stepID int) error {
	b.mustCompose("merge target phrase")
	if stepID < 0 || stepID >= len(b.mergeCounts) {
		contractViolation("step %d outside decode graph of %d steps", stepID, len(b.mergeCounts))
	}
	if err := b.checkFragment(fragment, factors); err != nil {
		return err
	}

	b.target.MergeFactors(fragment, factors)
	b.breakdown.Add(delta)
	b.mergeCounts[stepID]++
	return nil
}

// MergePhrase merges the given factors of a generation step fragment into the target phrase
// and adds delta to the score breakdown. Merge counts are not touched.
func (b *Builder) MergePhrase(fragment model.Phrase, delta model.ScoreVector, factors []model.FactorType) error {
	b.mustCompose("merge phrase")
	if err := b.checkFragment(fragment, factors); err != nil {
		return err
	}

	b.target.MergeFactors(fragment, factors)
	b.breakdown.Add(delta)
	return nil
}

func (b *Builder) checkFragment(fragment model.Phrase, factors []model.FactorType) error {
	if fragment.Size() != b.target.Size() {
		return fmt.Errorf("%w: fragment has %d words, target has %d", ErrWordCountMismatch, fragment.Size(), b.target.Size())
	}
	if err := model.ValidateFactors(factors); err != nil {
		return err
	}
	return nil
}

// CacheReorderingScore stores the scores of a reordering model, replacing earlier ones
func (b *Builder) CacheReorderingScore(producer string, scores model.ScoreVector) {
	b.mustCompose("cache reordering score")
	b.reordering = &reorderingSlot{producer: producer, scores: scores.Clone()}
}

// Finalize computes the future score and returns the immutable option.
// The builder cannot be used afterwards. A nil scorer gives a future score of zero.
func (b *Builder) Finalize(scorer *Scorer) *Option {
	b.mustCompose("finalize")
	b.finalized = true

	lmEstimate := scorer.lmEstimate(b.target.Phrase)
	var reordering model.ScoreVector
	if b.reordering != nil {
		reordering = b.reordering.scores
	}

	o := &Option{
		rng:           b.rng,
		target:        b.target,
		source:        b.source,
		breakdown:     b.breakdown,
		lmEstimate:    lmEstimate,
		futureScore:   scorer.futureScore(b.breakdown, reordering, lmEstimate, b.target.Size()),
		decodeGraphID: b.decodeGraphID,
		mergeCounts:   b.mergeCounts,
	}
	if b.reordering != nil {
		o.reordering.Store(b.reordering)
	}

	b.target = model.TargetPhrase{}
	b.source = nil
	b.breakdown = nil
	b.reordering = nil
	b.mergeCounts = nil
	return o
}

func (b *Builder) mustCompose(op string) {
	if b.finalized {
		contractViolation("%s on finalized option over %s", op, b.rng)
	}
}

// Range returns the covered source range
func (b *Builder) Range() model.Range {
	return b.rng
}

// TargetPhrase returns a copy of the target phrase composed so far
func (b *Builder) TargetPhrase() model.TargetPhrase {
	return b.target.Clone()
}

// TargetSize returns the number of target words
func (b *Builder) TargetSize() int {
	return b.target.Size()
}

// ScoreBreakdown returns a copy of the accumulated scores
func (b *Builder) ScoreBreakdown() model.ScoreVector {
	return b.breakdown.Clone()
}

// MergeCounts returns a copy of the per-step merge counts
func (b *Builder) MergeCounts() []int {
	return cloneCounts(b.mergeCounts)
}

// DecodeGraphID returns the id of the decode graph that produced the builder
func (b *Builder) DecodeGraphID() int {
	return b.decodeGraphID
}

func clonePhrase(p *model.Phrase) *model.Phrase {
	if p == nil {
		return nil
	}
	c := p.Clone()
	return &c
}

func cloneCounts(counts []int) []int {
	if counts == nil {
		return nil
	}
	out := make([]int, len(counts))
	copy(out, counts)
	return out
}
