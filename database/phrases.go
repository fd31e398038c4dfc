package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/phraseopt/helper"
	"github.com/siherrmann/phraseopt/model"
	loadSql "github.com/siherrmann/phraseopt/sql"
)

// PhrasesDBHandlerFunctions defines the interface for phrase-table database operations.
type PhrasesDBHandlerFunctions interface {
	InsertPhrase(entry *model.PhraseEntry) error
	SelectPhrase(rid uuid.UUID) (*model.PhraseEntry, error)
	SelectPhrasesBySource(ctx context.Context, source string, limit int) ([]*model.PhraseEntry, error)
	SelectPhrasesBySearch(searchTerm string, limit int) ([]*model.PhraseEntry, error)
	DeletePhrase(rid uuid.UUID) error
}

// PhrasesDBHandler handles phrase-table database operations
type PhrasesDBHandler struct {
	db *helper.Database
}

// NewPhrasesDBHandler creates a new phrases database handler.
// It loads the phrase-related SQL functions and creates the table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewPhrasesDBHandler(db *helper.Database, force bool) (*PhrasesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	phrasesDbHandler := &PhrasesDBHandler{
		db: db,
	}

	err := loadSql.LoadPhrasesSql(phrasesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load phrases sql", err)
	}

	err = phrasesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized PhrasesDBHandler")

	return phrasesDbHandler, nil
}

// CreateTable creates the 'phrases' table and its indexes if they do not exist.
func (h *PhrasesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_phrases();`)
	if err != nil {
		log.Panicf("error initializing phrases table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table phrases")

	return nil
}

// InsertPhrase inserts a new phrase-table entry and fills its generated fields
func (h *PhrasesDBHandler) InsertPhrase(entry *model.PhraseEntry) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_phrase($1, $2, $3, $4, $5)`,
		entry.Source,
		entry.Target,
		entry.Scores,
		entry.Alignment,
		entry.TrainingCount,
	)

	err := scanPhrase(row, entry)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectPhrase retrieves a phrase-table entry by RID
func (h *PhrasesDBHandler) SelectPhrase(rid uuid.UUID) (*model.PhraseEntry, error) {
	entry := &model.PhraseEntry{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_phrase($1)`,
		rid,
	)

	err := scanPhrase(row, entry)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return entry, nil
}

// SelectPhrasesBySource retrieves the entries of a source phrase, best phrase-table score first
func (h *PhrasesDBHandler) SelectPhrasesBySource(ctx context.Context, source string, limit int) ([]*model.PhraseEntry, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_phrases_by_source($1, $2)`,
		source,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}

	return collectPhrases(rows)
}

// SelectPhrasesBySearch searches entries whose source phrase resembles searchTerm
func (h *PhrasesDBHandler) SelectPhrasesBySearch(searchTerm string, limit int) ([]*model.PhraseEntry, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM search_phrases($1, $2)`,
		searchTerm,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}

	return collectPhrases(rows)
}

// DeletePhrase deletes a phrase-table entry by RID
func (h *PhrasesDBHandler) DeletePhrase(rid uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_phrase($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhrase(row rowScanner, entry *model.PhraseEntry) error {
	return row.Scan(
		&entry.ID,
		&entry.RID,
		&entry.Source,
		&entry.Target,
		&entry.Scores,
		&entry.Alignment,
		&entry.TrainingCount,
		&entry.CreatedAt,
	)
}

func collectPhrases(rows *sql.Rows) ([]*model.PhraseEntry, error) {
	defer rows.Close()

	var entries []*model.PhraseEntry
	for rows.Next() {
		entry := &model.PhraseEntry{}
		err := scanPhrase(rows, entry)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		entries = append(entries, entry)
	}

	err := rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return entries, nil
}
