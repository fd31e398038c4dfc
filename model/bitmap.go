package model

import (
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// CoverageBitmap records which source positions a hypothesis already translated
type CoverageBitmap struct {
	bits *bitset.BitSet
	size int
}

// NewCoverageBitmap creates an empty record for a sentence of the given size
func NewCoverageBitmap(size int) *CoverageBitmap {
	if size < 0 {
		size = 0
	}
	return &CoverageBitmap{
		bits: bitset.New(uint(size)),
		size: size,
	}
}

// Size returns the sentence length
func (c *CoverageBitmap) Size() int {
	return c.size
}

// Cover marks every position of r as translated
func (c *CoverageBitmap) Cover(r Range) {
	for pos := r.Start(); pos <= r.End() && pos < c.size; pos++ {
		c.bits.Set(uint(pos))
	}
}

// IsCovered reports whether pos was translated
func (c *CoverageBitmap) IsCovered(pos int) bool {
	if pos < 0 || pos >= c.size {
		return false
	}
	return c.bits.Test(uint(pos))
}

// Overlaps reports whether any position of r is already covered
func (c *CoverageBitmap) Overlaps(r Range) bool {
	for pos := r.Start(); pos <= r.End() && pos < c.size; pos++ {
		if c.bits.Test(uint(pos)) {
			return true
		}
	}
	return false
}

// NumCovered returns the number of translated positions
func (c *CoverageBitmap) NumCovered() int {
	return int(c.bits.Count())
}

// IsComplete reports whether every position is translated
func (c *CoverageBitmap) IsComplete() bool {
	return c.NumCovered() == c.size
}

// Gaps returns the maximal uncovered ranges in order
func (c *CoverageBitmap) Gaps() []Range {
	var gaps []Range
	start := -1
	for pos := 0; pos < c.size; pos++ {
		if !c.bits.Test(uint(pos)) {
			if start < 0 {
				start = pos
			}
			continue
		}
		if start >= 0 {
			gaps = append(gaps, NewRange(start, pos-1))
			start = -1
		}
	}
	if start >= 0 {
		gaps = append(gaps, NewRange(start, c.size-1))
	}
	return gaps
}

// Clone returns an independent copy
func (c *CoverageBitmap) Clone() *CoverageBitmap {
	return &CoverageBitmap{
		bits: c.bits.Clone(),
		size: c.size,
	}
}

func (c *CoverageBitmap) String() string {
	var sb strings.Builder
	for pos := 0; pos < c.size; pos++ {
		if c.bits.Test(uint(pos)) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
