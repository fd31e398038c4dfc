package collection

import (
	"github.com/siherrmann/phraseopt/core/option"
	"github.com/siherrmann/phraseopt/model"
)

// Collection holds the scored options of every span of one sentence
type Collection struct {
	sentence   *model.Sentence
	spans      [][][]*option.Option // [start][length-1]
	futureCost *FutureCostMatrix
}

// Sentence returns the sentence the options were collected for
func (c *Collection) Sentence() *model.Sentence {
	return c.sentence
}

// Options returns the options covering exactly rng, best first
func (c *Collection) Options(rng model.Range) []*option.Option {
	if rng.Start() >= len(c.spans) || rng.Count() > len(c.spans[rng.Start()]) {
		return nil
	}
	span := c.spans[rng.Start()][rng.Count()-1]
	out := make([]*option.Option, len(span))
	copy(out, span)
	return out
}

// All returns every option ordered by start position, span length and score
func (c *Collection) All() []*option.Option {
	var out []*option.Option
	for _, byLength := range c.spans {
		for _, span := range byLength {
			out = append(out, span...)
		}
	}
	return out
}

// Len returns the number of options
func (c *Collection) Len() int {
	n := 0
	for _, byLength := range c.spans {
		for _, span := range byLength {
			n += len(span)
		}
	}
	return n
}

// Compatible returns the options that do not overlap coverage
func (c *Collection) Compatible(coverage *model.CoverageBitmap) []*option.Option {
	var out []*option.Option
	for start, byLength := range c.spans {
		if coverage.IsCovered(start) {
			continue
		}
		for _, span := range byLength {
			for _, o := range span {
				if !o.Overlap(coverage) {
					out = append(out, o)
				}
			}
		}
	}
	return out
}

// FutureCost returns the future-cost matrix of the sentence
func (c *Collection) FutureCost() *FutureCostMatrix {
	return c.futureCost
}
