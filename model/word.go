package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/siherrmann/phraseopt/helper"
)

// FactorType indexes one annotation layer of a word
type FactorType int

const (
	FactorSurface FactorType = iota
	FactorPOS
	FactorLemma
	FactorMorphology
)

// MaxNumFactors is the number of factor layers a word can carry
const MaxNumFactors = 4

// FactorDelimiter separates factors in the textual form `house|NN|house`
const FactorDelimiter = "|"

// Valid reports whether f addresses an existing factor layer
func (f FactorType) Valid() bool {
	return f >= 0 && f < MaxNumFactors
}

func (f FactorType) String() string {
	switch f {
	case FactorSurface:
		return "surface"
	case FactorPOS:
		return "pos"
	case FactorLemma:
		return "lemma"
	case FactorMorphology:
		return "morphology"
	}
	return fmt.Sprintf("factor%d", int(f))
}

// ValidateFactors returns an error for the first factor outside the supported layers
func ValidateFactors(factors []FactorType) error {
	for _, f := range factors {
		if !f.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidFactor, int(f))
		}
	}
	return nil
}

// Word is a multi-factor token. Empty strings mark unset factors.
type Word [MaxNumFactors]string

// ParseWord reads `a|b|c` into the factors given by order
func ParseWord(text string, order []FactorType) Word {
	var w Word
	parts := strings.Split(text, FactorDelimiter)
	for i, f := range order {
		if i >= len(parts) || !f.Valid() {
			break
		}
		w[f] = parts[i]
	}
	return w
}

// Factor returns the value of factor f
func (w Word) Factor(f FactorType) string {
	if !f.Valid() {
		return ""
	}
	return w[f]
}

// Surface returns the surface form
func (w Word) Surface() string {
	return w[FactorSurface]
}

// Project returns a word carrying only the given factors
func (w Word) Project(factors []FactorType) Word {
	var out Word
	for _, f := range factors {
		if f.Valid() {
			out[f] = w[f]
		}
	}
	return out
}

// Format joins the given factors with the factor delimiter
func (w Word) Format(factors []FactorType) string {
	parts := make([]string, 0, len(factors))
	for _, f := range factors {
		parts = append(parts, w.Factor(f))
	}
	return strings.Join(parts, FactorDelimiter)
}

func (w Word) String() string {
	last := 0
	for f := range w {
		if w[f] != "" {
			last = f
		}
	}
	return strings.Join(w[:last+1], FactorDelimiter)
}

// Value implements the driver.Valuer interface for database storage
func (w Word) Value() (driver.Value, error) {
	b, err := json.Marshal([MaxNumFactors]string(w))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database retrieval
func (w *Word) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}
	var factors [MaxNumFactors]string
	if err := json.Unmarshal(b, &factors); err != nil {
		return helper.NewError("unmarshal word", err)
	}
	*w = Word(factors)
	return nil
}
