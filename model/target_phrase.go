package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/siherrmann/phraseopt/helper"
)

// AlignmentPoint links a source word to a target word, both relative to their phrase
type AlignmentPoint struct {
	Source int `json:"s"`
	Target int `json:"t"`
}

// Alignment is the word alignment of a phrase pair
type Alignment []AlignmentPoint

// Clone returns a copy
func (a Alignment) Clone() Alignment {
	if a == nil {
		return nil
	}
	out := make(Alignment, len(a))
	copy(out, a)
	return out
}

// TargetFor returns the target positions aligned to source position s
func (a Alignment) TargetFor(s int) []int {
	var out []int
	for _, p := range a {
		if p.Source == s {
			out = append(out, p.Target)
		}
	}
	return out
}

// Value implements the driver.Valuer interface for database storage
func (a Alignment) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]AlignmentPoint(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database retrieval
func (a *Alignment) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}
	return json.Unmarshal(b, a)
}

// TargetPhrase is a phrase-table rendering of a source phrase:
// the factored target words, their alignment, the entry's own feature scores
// and how often the pair was seen in training. An empty phrase is a deletion.
type TargetPhrase struct {
	Phrase
	Scores        ScoreVector `json:"scores,omitempty"`
	Alignment     Alignment   `json:"alignment,omitempty"`
	TrainingCount int         `json:"training_count,omitempty"`
}

// NewTargetPhrase creates a target phrase from words and scores
func NewTargetPhrase(phrase Phrase, scores ScoreVector) TargetPhrase {
	return TargetPhrase{
		Phrase: phrase.Clone(),
		Scores: scores.Clone(),
	}
}

// Clone returns a deep copy
func (tp TargetPhrase) Clone() TargetPhrase {
	return TargetPhrase{
		Phrase:        tp.Phrase.Clone(),
		Scores:        tp.Scores.Clone(),
		Alignment:     tp.Alignment.Clone(),
		TrainingCount: tp.TrainingCount,
	}
}

// Project returns a deep copy carrying only the given word factors
func (tp TargetPhrase) Project(factors []FactorType) TargetPhrase {
	out := tp.Clone()
	out.Phrase = tp.Phrase.Project(factors)
	return out
}
