package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/phraseopt/helper"
	"github.com/siherrmann/phraseopt/model"
	loadSql "github.com/siherrmann/phraseopt/sql"
)

// GenerationsDBHandlerFunctions defines the interface for generation-table database operations.
type GenerationsDBHandlerFunctions interface {
	InsertGeneration(entry *model.GenerationEntry) error
	SelectGenerationsByInput(ctx context.Context, input string, limit int) ([]*model.GenerationEntry, error)
	DeleteGeneration(rid uuid.UUID) error
}

// GenerationsDBHandler handles generation-table database operations
type GenerationsDBHandler struct {
	db *helper.Database
}

// NewGenerationsDBHandler creates a new generations database handler.
// If force is true, it will reload the SQL functions even if they already exist.
func NewGenerationsDBHandler(db *helper.Database, force bool) (*GenerationsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	generationsDbHandler := &GenerationsDBHandler{
		db: db,
	}

	err := loadSql.LoadGenerationsSql(generationsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load generations sql", err)
	}

	err = generationsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized GenerationsDBHandler")

	return generationsDbHandler, nil
}

// CreateTable creates the 'generations' table if it does not exist.
func (h *GenerationsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_generations();`)
	if err != nil {
		log.Panicf("error initializing generations table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table generations")

	return nil
}

// InsertGeneration inserts a new generation-table entry
func (h *GenerationsDBHandler) InsertGeneration(entry *model.GenerationEntry) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_generation($1, $2, $3)`,
		entry.Input,
		entry.Output,
		entry.Scores,
	)

	err := row.Scan(
		&entry.ID,
		&entry.RID,
		&entry.Input,
		&entry.Output,
		&entry.Scores,
		&entry.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectGenerationsByInput retrieves the generations of an input key in insertion order
func (h *GenerationsDBHandler) SelectGenerationsByInput(ctx context.Context, input string, limit int) ([]*model.GenerationEntry, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_generations_by_input($1, $2)`,
		input,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var entries []*model.GenerationEntry
	for rows.Next() {
		entry := &model.GenerationEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.RID,
			&entry.Input,
			&entry.Output,
			&entry.Scores,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		entries = append(entries, entry)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return entries, nil
}

// DeleteGeneration deletes a generation-table entry by RID
func (h *GenerationsDBHandler) DeleteGeneration(rid uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_generation($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
