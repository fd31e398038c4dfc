package model

import "fmt"

// Range is a contiguous, non-empty span of source positions.
// Start and end are zero-indexed and inclusive.
type Range struct {
	start int
	end   int
}

// NewRange creates the range [start, end].
// An empty or negative range is a programming error and panics.
func NewRange(start, end int) Range {
	if start < 0 || end < start {
		panic(fmt.Sprintf("contract violation: invalid source range [%d..%d]", start, end))
	}
	return Range{start: start, end: end}
}

// Start returns the first covered position
func (r Range) Start() int { return r.start }

// End returns the last covered position
func (r Range) End() int { return r.end }

// Count returns the number of covered positions, always at least 1
func (r Range) Count() int { return r.end - r.start + 1 }

// Contains reports whether pos lies inside the range
func (r Range) Contains(pos int) bool {
	return pos >= r.start && pos <= r.end
}

// Overlaps reports whether both ranges share at least one position
func (r Range) Overlaps(other Range) bool {
	return r.start <= other.end && other.start <= r.end
}

func (r Range) String() string {
	return fmt.Sprintf("[%d..%d]", r.start, r.end)
}
