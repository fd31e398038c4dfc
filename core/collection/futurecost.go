package collection

import (
	"math"

	"github.com/siherrmann/phraseopt/model"
	"gonum.org/v1/gonum/mat"
)

// FutureCostMatrix holds, for every span of the sentence, the best score any
// sequence of options can reach when translating exactly that span.
// Unreachable spans hold -Inf. Scores are log values, higher is better.
type FutureCostMatrix struct {
	size  int
	costs *mat.Dense
}

// newFutureCostMatrix fills the matrix from the best option score of each span,
// then combines adjacent spans from short to long.
func newFutureCostMatrix(size int, best func(start, end int) float64) *FutureCostMatrix {
	f := &FutureCostMatrix{size: size}
	if size == 0 {
		return f
	}

	f.costs = mat.NewDense(size, size, nil)
	for length := 1; length <= size; length++ {
		for start := 0; start+length <= size; start++ {
			end := start + length - 1
			cost := best(start, end)
			for split := start; split < end; split++ {
				combined := f.costs.At(start, split) + f.costs.At(split+1, end)
				if combined > cost {
					cost = combined
				}
			}
			f.costs.Set(start, end, cost)
		}
	}
	return f
}

// Size returns the sentence length
func (f *FutureCostMatrix) Size() int {
	return f.size
}

// Get returns the future cost of the span [start, end], -Inf outside the sentence
func (f *FutureCostMatrix) Get(start, end int) float64 {
	if start < 0 || end >= f.size || end < start {
		return math.Inf(-1)
	}
	return f.costs.At(start, end)
}

// CostFor returns the estimated score of translating everything coverage leaves open
func (f *FutureCostMatrix) CostFor(coverage *model.CoverageBitmap) float64 {
	total := 0.0
	for _, gap := range coverage.Gaps() {
		total += f.Get(gap.Start(), gap.End())
	}
	return total
}
