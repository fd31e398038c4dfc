package lm

import (
	"testing"

	"github.com/siherrmann/phraseopt/model"
	"github.com/stretchr/testify/assert"
)

func newTestModel() *Model {
	m := NewModel(model.FactorSurface, 2, DefaultUnknownLogProb)
	m.Add([]string{"le"}, -1.0, -0.5)
	m.Add([]string{"chat"}, -2.0, -0.1)
	m.Add([]string{"noir"}, -3.0, 0)
	m.Add([]string{"le", "chat"}, -0.4, 0)
	return m
}

func TestNewModel(t *testing.T) {
	t.Run("Order is at least one", func(t *testing.T) {
		m := NewModel(model.FactorLemma, 0, -10)

		assert.Equal(t, 1, m.Order())
		assert.Equal(t, model.FactorLemma, m.Factor())
	})

	t.Run("N-grams above order are ignored", func(t *testing.T) {
		m := NewModel(model.FactorSurface, 2, -10)
		m.Add([]string{"a", "b", "c"}, -1, 0)
		m.Add(nil, -1, 0)

		assert.Equal(t, 0, m.Len())
	})
}

func TestModelScore(t *testing.T) {
	m := newTestModel()

	t.Run("Known bigram", func(t *testing.T) {
		// le + le chat
		assert.InDelta(t, -1.4, m.Score([]string{"le", "chat"}), 1e-9)
	})

	t.Run("Unseen bigram backs off", func(t *testing.T) {
		// le + backoff(le) + noir
		assert.InDelta(t, -1.0-0.5-3.0, m.Score([]string{"le", "noir"}), 1e-9)
	})

	t.Run("Unknown word", func(t *testing.T) {
		assert.InDelta(t, DefaultUnknownLogProb, m.Score([]string{"zyx"}), 1e-9)
	})

	t.Run("Empty sequence scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, m.Score(nil))
	})

	t.Run("Context is limited by order", func(t *testing.T) {
		// chat after noir backs off with the zero weight of noir
		expected := -3.0 + (0 + -2.0)
		assert.InDelta(t, expected, m.Score([]string{"noir", "chat"}), 1e-9)
		// le + le chat + backoff(chat) + noir
		assert.InDelta(t, -1.0-0.4-0.1-3.0, m.Score([]string{"le", "chat", "noir"}), 1e-9)
	})
}
