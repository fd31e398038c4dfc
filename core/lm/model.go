package lm

import (
	"strings"
	"sync"

	"github.com/siherrmann/phraseopt/model"
)

// DefaultUnknownLogProb is the log probability of words the model has never seen
const DefaultUnknownLogProb = -100.0

type ngram struct {
	logProb float64
	backoff float64
}

// Model is an in-memory back-off n-gram language model over one word factor.
// All probabilities are natural log values.
type Model struct {
	factor  model.FactorType
	order   int
	unknown float64

	mu     sync.RWMutex
	ngrams map[string]ngram
}

// NewModel creates an empty model of the given order reading words from factor.
// Orders below 1 are raised to 1.
func NewModel(factor model.FactorType, order int, unknownLogProb float64) *Model {
	if order < 1 {
		order = 1
	}
	return &Model{
		factor:  factor,
		order:   order,
		unknown: unknownLogProb,
		ngrams:  make(map[string]ngram),
	}
}

// Factor returns the word factor the model reads
func (m *Model) Factor() model.FactorType {
	return m.factor
}

// Order returns the n-gram order
func (m *Model) Order() int {
	return m.order
}

// Add stores an n-gram with its log probability and back-off weight.
// N-grams longer than the model order are ignored.
func (m *Model) Add(words []string, logProb, backoff float64) {
	if len(words) == 0 || len(words) > m.order {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ngrams[key(words)] = ngram{logProb: logProb, backoff: backoff}
}

// Len returns the number of stored n-grams
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ngrams)
}

// Score returns the log probability of words without any context before the first word.
// Each word is conditioned on at most order-1 preceding words of the sequence.
func (m *Model) Score(words []string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0.0
	for i := range words {
		start := i - m.order + 1
		if start < 0 {
			start = 0
		}
		total += m.logProb(words[start:i], words[i])
	}
	return total
}

// logProb applies Katz back-off: an unseen n-gram falls back to the shorter
// context, paying the back-off weight of the dropped context.
func (m *Model) logProb(context []string, word string) float64 {
	full := append(append(make([]string, 0, len(context)+1), context...), word)
	if n, ok := m.ngrams[key(full)]; ok {
		return n.logProb
	}
	if len(context) == 0 {
		return m.unknown
	}
	return m.ngrams[key(context)].backoff + m.logProb(context[1:], word)
}

func key(words []string) string {
	return strings.Join(words, " ")
}
