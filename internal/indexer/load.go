package indexer

import (
	"context"
	"fmt"
	"time"
)

// Source supplies whole documents for the bulk-load phase.
type Source interface {
	Documents(ctx context.Context) ([]string, error)
}

// Load fetches every document from src and indexes them one at a time. It
// returns the number of documents handed to Index. Load is the single writer
// and should finish before the engine starts serving searches.
func (e *Engine) Load(ctx context.Context, src Source) (int, error) {
	start := time.Now()
	docs, err := src.Documents(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading documents: %w", err)
	}
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return i, fmt.Errorf("bulk load interrupted: %w", err)
		}
		e.Index(doc)
	}
	e.logger.Info("bulk load complete",
		"documents", len(docs),
		"distinct_documents", e.DocCount(),
		"terms", e.TermCount(),
		"size_bytes", e.memIndex.Size(),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return len(docs), nil
}
