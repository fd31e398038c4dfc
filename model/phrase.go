package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"

	"github.com/siherrmann/phraseopt/helper"
)

// Phrase is an ordered sequence of factored words
type Phrase struct {
	Words []Word `json:"words"`
}

// NewPhrase creates a phrase from words, copying the slice
func NewPhrase(words ...Word) Phrase {
	p := Phrase{Words: make([]Word, len(words))}
	copy(p.Words, words)
	return p
}

// ParsePhrase reads whitespace separated factored words
func ParsePhrase(text string, order []FactorType) Phrase {
	fields := strings.Fields(text)
	p := Phrase{Words: make([]Word, 0, len(fields))}
	for _, field := range fields {
		p.Words = append(p.Words, ParseWord(field, order))
	}
	return p
}

// Size returns the number of words
func (p Phrase) Size() int {
	return len(p.Words)
}

// Word returns the word at pos
func (p Phrase) Word(pos int) Word {
	return p.Words[pos]
}

// Factors returns the values of factor f for every word
func (p Phrase) Factors(f FactorType) []string {
	out := make([]string, len(p.Words))
	for i, w := range p.Words {
		out[i] = w.Factor(f)
	}
	return out
}

// Key returns a lookup key built from the given factors of every word
func (p Phrase) Key(factors []FactorType) string {
	parts := make([]string, len(p.Words))
	for i, w := range p.Words {
		parts[i] = w.Format(factors)
	}
	return strings.Join(parts, " ")
}

// Project returns a copy carrying only the given factors
func (p Phrase) Project(factors []FactorType) Phrase {
	out := Phrase{Words: make([]Word, len(p.Words))}
	for i, w := range p.Words {
		out.Words[i] = w.Project(factors)
	}
	return out
}

// Clone returns a deep copy
func (p Phrase) Clone() Phrase {
	if p.Words == nil {
		return Phrase{}
	}
	return NewPhrase(p.Words...)
}

// IsCompatible reports whether other agrees with p on every given factor that both have set.
// Phrases of different size are never compatible.
func (p Phrase) IsCompatible(other Phrase, factors []FactorType) bool {
	if p.Size() != other.Size() {
		return false
	}
	for i := range p.Words {
		for _, f := range factors {
			mine, theirs := p.Words[i].Factor(f), other.Words[i].Factor(f)
			if mine != "" && theirs != "" && mine != theirs {
				return false
			}
		}
	}
	return true
}

// MergeFactors copies the given factors of other into p, word by word.
// Both phrases must have the same size; callers check this before merging.
func (p *Phrase) MergeFactors(other Phrase, factors []FactorType) {
	for i := range p.Words {
		for _, f := range factors {
			p.Words[i][f] = other.Words[i][f]
		}
	}
}

// String formats the phrase with all set factors of each word
func (p Phrase) String() string {
	parts := make([]string, len(p.Words))
	for i, w := range p.Words {
		parts[i] = w.String()
	}
	return strings.Join(parts, " ")
}

// Value implements the driver.Valuer interface for database storage
func (p Phrase) Value() (driver.Value, error) {
	b, err := json.Marshal(p.wordsOrEmpty())
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database retrieval
func (p *Phrase) Scan(value interface{}) error {
	if value == nil {
		*p = Phrase{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}
	var words []Word
	if err := json.Unmarshal(b, &words); err != nil {
		return helper.NewError("unmarshal words", err)
	}
	*p = Phrase{Words: words}
	return nil
}

func (p Phrase) wordsOrEmpty() []Word {
	if p.Words == nil {
		return []Word{}
	}
	return p.Words
}
