package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Sentence is the factored source sentence options are collected for
type Sentence struct {
	words []Word
}

// NewSentence tokenizes text on whitespace after NFKC normalization.
// Each token is read as factored word in the given factor order.
func NewSentence(text string, order []FactorType) *Sentence {
	text = norm.NFKC.String(text)
	fields := strings.Fields(text)

	s := &Sentence{words: make([]Word, 0, len(fields))}
	for _, field := range fields {
		s.words = append(s.words, ParseWord(field, order))
	}
	return s
}

// NewSentenceFromWords creates a sentence from already factored words
func NewSentenceFromWords(words ...Word) *Sentence {
	s := &Sentence{words: make([]Word, len(words))}
	copy(s.words, words)
	return s
}

// Size returns the number of source positions
func (s *Sentence) Size() int {
	return len(s.words)
}

// Word returns the word at pos
func (s *Sentence) Word(pos int) (Word, error) {
	if pos < 0 || pos >= len(s.words) {
		return Word{}, fmt.Errorf("%w: %d not in sentence of size %d", ErrOutOfRange, pos, len(s.words))
	}
	return s.words[pos], nil
}

// SubPhrase returns a copy of the words covered by r
func (s *Sentence) SubPhrase(r Range) (Phrase, error) {
	if r.End() >= len(s.words) {
		return Phrase{}, fmt.Errorf("%w: %s not in sentence of size %d", ErrOutOfRange, r, len(s.words))
	}
	return NewPhrase(s.words[r.Start() : r.End()+1]...), nil
}

func (s *Sentence) String() string {
	return NewPhrase(s.words...).String()
}
