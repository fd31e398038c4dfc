package model

import (
	"time"

	"github.com/google/uuid"
)

// PhraseEntry is one stored phrase-table row: a source key and one of its renderings
type PhraseEntry struct {
	ID            int64       `json:"id"`
	RID           uuid.UUID   `json:"rid"`
	Source        string      `json:"source"`
	Target        Phrase      `json:"target"`
	Scores        ScoreVector `json:"scores"`
	Alignment     Alignment   `json:"alignment,omitempty"`
	TrainingCount int         `json:"training_count"`
	CreatedAt     time.Time   `json:"created_at"`
}

// TargetPhrase converts the entry into the target phrase handed to option construction
func (e *PhraseEntry) TargetPhrase() TargetPhrase {
	return TargetPhrase{
		Phrase:        e.Target.Clone(),
		Scores:        e.Scores.Clone(),
		Alignment:     e.Alignment.Clone(),
		TrainingCount: e.TrainingCount,
	}
}

// GenerationEntry is one stored generation-table row mapping input factors of a word to output factors
type GenerationEntry struct {
	ID        int64       `json:"id"`
	RID       uuid.UUID   `json:"rid"`
	Input     string      `json:"input"`
	Output    Word        `json:"output"`
	Scores    ScoreVector `json:"scores"`
	CreatedAt time.Time   `json:"created_at"`
}
