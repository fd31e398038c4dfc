package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSentence(t *testing.T) {
	t.Run("Tokenizes on whitespace", func(t *testing.T) {
		s := NewSentence("  the   black\tcat ", []FactorType{FactorSurface})

		require.Equal(t, 3, s.Size())
		w, err := s.Word(1)
		require.NoError(t, err)
		assert.Equal(t, "black", w.Surface())
		assert.Equal(t, "the black cat", s.String())
	})

	t.Run("Normalizes compatibility characters", func(t *testing.T) {
		s := NewSentence("ｃａｔ", []FactorType{FactorSurface})

		w, err := s.Word(0)
		require.NoError(t, err)
		assert.Equal(t, "cat", w.Surface())
	})

	t.Run("Reads factors", func(t *testing.T) {
		s := NewSentence("cats|NNS", surfacePOS)

		w, err := s.Word(0)
		require.NoError(t, err)
		assert.Equal(t, "NNS", w.Factor(FactorPOS))
	})

	t.Run("Empty text gives empty sentence", func(t *testing.T) {
		assert.Equal(t, 0, NewSentence("", []FactorType{FactorSurface}).Size())
	})
}

func TestSentenceSubPhrase(t *testing.T) {
	s := NewSentence("the black cat", []FactorType{FactorSurface})

	t.Run("Sub phrase copies covered words", func(t *testing.T) {
		p, err := s.SubPhrase(NewRange(1, 2))

		require.NoError(t, err)
		assert.Equal(t, "black cat", p.String())

		p.Words[0][FactorSurface] = "white"
		w, _ := s.Word(1)
		assert.Equal(t, "black", w.Surface(), "Expected sentence to be untouched")
	})

	t.Run("Range outside sentence", func(t *testing.T) {
		_, err := s.SubPhrase(NewRange(2, 3))
		assert.True(t, errors.Is(err, ErrOutOfRange))

		_, err = s.Word(3)
		assert.True(t, errors.Is(err, ErrOutOfRange))
	})
}
