package database

import (
	"context"
	"fmt"
	"time"

	"github.com/siherrmann/phraseopt/helper"
)

// ChangeSourceIndexType changes the trigram index on phrase sources between GIN and GiST.
// indexType: "gin" or "gist"
// params: optional parameters for index creation
//   - For GiST: "siglen" (int, default 12)
func (h *PhrasesDBHandler) ChangeSourceIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	var createIndexSQL string
	switch indexType {
	case "gin":
		createIndexSQL = `CREATE INDEX idx_phrases_source_trgm ON phrases USING gin (source gin_trgm_ops);`

	case "gist":
		siglen := 12
		if siglenVal, ok := params["siglen"].(int); ok {
			siglen = siglenVal
		}

		createIndexSQL = fmt.Sprintf(
			`CREATE INDEX idx_phrases_source_trgm ON phrases USING gist (source gist_trgm_ops(siglen = %d));`,
			siglen,
		)

	default:
		return helper.NewError("change index type", fmt.Errorf("unsupported index type: %s (use 'gin' or 'gist')", indexType))
	}

	// Drop existing index
	_, err := h.db.Instance.ExecContext(ctx, `DROP INDEX IF EXISTS idx_phrases_source_trgm;`)
	if err != nil {
		return helper.NewError("drop index", err)
	}

	h.db.Logger.Info("Dropped existing source index")

	_, err = h.db.Instance.ExecContext(ctx, createIndexSQL)
	if err != nil {
		return helper.NewError("create index", err)
	}

	h.db.Logger.Info(fmt.Sprintf("Created %s index with params: %v", indexType, params))

	return nil
}
