package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed phrases.sql
var phrasesSQL string

//go:embed generations.sql
var generationsSQL string

// Function lists for verification
var PhrasesFunctions = []string{
	"init_phrases",
	"insert_phrase",
	"select_phrase",
	"select_phrases_by_source",
	"search_phrases",
	"delete_phrase",
}

var GenerationsFunctions = []string{
	"init_generations",
	"insert_generation",
	"select_generations_by_input",
	"delete_generation",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadPhrasesSql loads phrase-table SQL functions
func LoadPhrasesSql(db *sql.DB, force bool) error {
	return loadFunctions(db, "phrases", phrasesSQL, PhrasesFunctions, force)
}

// LoadGenerationsSql loads generation-table SQL functions
func LoadGenerationsSql(db *sql.DB, force bool) error {
	return loadFunctions(db, "generations", generationsSQL, GenerationsFunctions, force)
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadPhrasesSql(db, force); err != nil {
		return err
	}

	if err := LoadGenerationsSql(db, force); err != nil {
		return err
	}

	return nil
}

// loadFunctions executes the script unless all its functions exist already or force is set
func loadFunctions(db *sql.DB, name string, script string, functions []string, force bool) error {
	if !force {
		exist, err := checkFunctions(db, functions)
		if err != nil {
			return fmt.Errorf("error checking existing %s functions: %w", name, err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(script)
	if err != nil {
		return fmt.Errorf("error executing %s SQL: %w", name, err)
	}

	exist, err := checkFunctions(db, functions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Printf("SQL %s functions loaded successfully", name)
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
