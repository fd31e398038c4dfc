package option

import (
	"sync/atomic"

	"github.com/siherrmann/phraseopt/model"
)

// NoDecodeGraph is the decode graph id of options created outside a decode graph
const NoDecodeGraph = -1

type reorderingSlot struct {
	producer string
	scores   model.ScoreVector
}

func (r *reorderingSlot) clone() *reorderingSlot {
	if r == nil {
		return nil
	}
	return &reorderingSlot{producer: r.producer, scores: r.scores.Clone()}
}

// Option is a scored translation option. It never changes after Finalize
// except for the reordering slot, which is published atomically.
// Options are shared by pointer between concurrent readers.
type Option struct {
	rng           model.Range
	target        model.TargetPhrase
	source        *model.Phrase
	breakdown     model.ScoreVector
	reordering    atomic.Pointer[reorderingSlot]
	lmEstimate    float64
	futureScore   float64
	decodeGraphID int
	mergeCounts   []int
}

// Clone returns an independent copy
func (o *Option) Clone() *Option {
	return o.WithRange(o.rng)
}

// WithRange returns a copy bound to rng. Scores and the future score are reused as they are,
// so they must not depend on the absolute source position.
func (o *Option) WithRange(rng model.Range) *Option {
	c := &Option{
		rng:           rng,
		target:        o.target.Clone(),
		source:        clonePhrase(o.source),
		breakdown:     o.breakdown.Clone(),
		lmEstimate:    o.lmEstimate,
		futureScore:   o.futureScore,
		decodeGraphID: o.decodeGraphID,
		mergeCounts:   cloneCounts(o.mergeCounts),
	}
	if r := o.reordering.Load(); r != nil {
		c.reordering.Store(r.clone())
	}
	return c
}

// Overlap reports whether any position of the option is already covered
func (o *Option) Overlap(coverage *model.CoverageBitmap) bool {
	return coverage.Overlaps(o.rng)
}

// CacheReorderingScore replaces the cached reordering scores. It does not change the future score.
func (o *Option) CacheReorderingScore(producer string, scores model.ScoreVector) {
	o.reordering.Store(&reorderingSlot{producer: producer, scores: scores.Clone()})
}

// ReorderingScore returns a copy of the cached reordering scores, nil if none were cached
func (o *Option) ReorderingScore() model.ScoreVector {
	r := o.reordering.Load()
	if r == nil {
		return nil
	}
	return r.scores.Clone()
}

// ReorderingProducer returns the name of the model that cached the reordering scores
func (o *Option) ReorderingProducer() string {
	r := o.reordering.Load()
	if r == nil {
		return ""
	}
	return r.producer
}

// SourceRange returns the covered source range
func (o *Option) SourceRange() model.Range { return o.rng }

// StartPos returns the first covered source position
func (o *Option) StartPos() int { return o.rng.Start() }

// EndPos returns the last covered source position
func (o *Option) EndPos() int { return o.rng.End() }

// SourceSize returns the number of covered source positions
func (o *Option) SourceSize() int { return o.rng.Count() }

// TargetSize returns the number of target words
func (o *Option) TargetSize() int { return o.target.Size() }

// IsDeletionOption reports whether the option translates its source words to nothing
func (o *Option) IsDeletionOption() bool { return o.target.Size() == 0 }

// TargetPhrase returns a copy of the target phrase
func (o *Option) TargetPhrase() model.TargetPhrase {
	return o.target.Clone()
}

// TargetWord returns target word i without copying the phrase
func (o *Option) TargetWord(i int) model.Word {
	return o.target.Word(i)
}

// SourcePhrase returns a copy of the source words, nil if the option was built without sentence
func (o *Option) SourcePhrase() *model.Phrase {
	return clonePhrase(o.source)
}

// ScoreBreakdown returns a copy of the accumulated feature scores
func (o *Option) ScoreBreakdown() model.ScoreVector {
	return o.breakdown.Clone()
}

// Score returns a single accumulated feature score
func (o *Option) Score(name string) float64 {
	return o.breakdown.Get(name)
}

// FutureScore returns the estimate computed by Finalize. Higher is better.
func (o *Option) FutureScore() float64 { return o.futureScore }

// LMEstimate returns the phrase-local language model score used in the future score
func (o *Option) LMEstimate() float64 { return o.lmEstimate }

// DecodeGraphID returns the id of the producing decode graph or NoDecodeGraph
func (o *Option) DecodeGraphID() int { return o.decodeGraphID }

// NumSteps returns the step count of the producing decode graph
func (o *Option) NumSteps() int { return len(o.mergeCounts) }

// SubRangeCount returns the number of merges attributed to step, zero for unknown steps
func (o *Option) SubRangeCount(step int) int {
	if step < 0 || step >= len(o.mergeCounts) {
		return 0
	}
	return o.mergeCounts[step]
}

// TrainingCount returns how often the target phrase was seen in training
func (o *Option) TrainingCount() int { return o.target.TrainingCount }

// Alignment returns a copy of the word alignment
func (o *Option) Alignment() model.Alignment {
	return o.target.Alignment.Clone()
}

func (o *Option) String() string {
	return Format(o)
}
