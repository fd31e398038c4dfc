package sql

import (
	"testing"

	_ "github.com/lib/pq"
	"github.com/siherrmann/phraseopt/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertFunctionsExist(t *testing.T, db *helper.Database, functions []string) {
	t.Helper()
	for _, funcName := range functions {
		var exists bool
		err := db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);", funcName).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "Function %s should exist", funcName)
	}
}

func TestInit(t *testing.T) {
	db := initDB(t)

	t.Run("Initialize database extensions", func(t *testing.T) {
		err := Init(db.Instance)
		assert.NoError(t, err)

		// Verify pg_trgm extension is created
		var exists bool
		err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_extension WHERE extname = 'pg_trgm');").Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "pg_trgm extension should be created")
	})

	t.Run("Initialize database extensions is idempotent", func(t *testing.T) {
		err := Init(db.Instance)
		assert.NoError(t, err)

		err = Init(db.Instance)
		assert.NoError(t, err)
	})
}

func TestLoadPhrasesSql(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	t.Run("Load phrases SQL functions", func(t *testing.T) {
		err := LoadPhrasesSql(db.Instance, false)
		assert.NoError(t, err)

		assertFunctionsExist(t, db, PhrasesFunctions)
	})

	t.Run("Load phrases SQL is idempotent without force", func(t *testing.T) {
		err := LoadPhrasesSql(db.Instance, false)
		assert.NoError(t, err)
	})

	t.Run("Load phrases SQL with force reloads", func(t *testing.T) {
		err := LoadPhrasesSql(db.Instance, true)
		assert.NoError(t, err)

		assertFunctionsExist(t, db, PhrasesFunctions)
	})
}

func TestLoadGenerationsSql(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	t.Run("Load generations SQL functions", func(t *testing.T) {
		err := LoadGenerationsSql(db.Instance, true)
		assert.NoError(t, err)

		assertFunctionsExist(t, db, GenerationsFunctions)
	})
}

func TestLoadAllSql(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	t.Run("Load all SQL functions", func(t *testing.T) {
		err := LoadAllSql(db.Instance, true)
		assert.NoError(t, err)

		assertFunctionsExist(t, db, PhrasesFunctions)
		assertFunctionsExist(t, db, GenerationsFunctions)
	})

	t.Run("Check functions reports missing functions", func(t *testing.T) {
		exist, err := checkFunctions(db.Instance, []string{"insert_phrase", "function_that_does_not_exist"})
		require.NoError(t, err)
		assert.False(t, exist)
	})
}
