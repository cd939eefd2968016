package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/andsearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/andsearch/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/andsearch/internal/ingestion/source"
	"github.com/Adithya-Monish-Kumar-K/andsearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/andsearch/pkg/resilience"
)

// namedSource is a Source that can describe itself in logs and events.
type namedSource interface {
	indexer.Source
	fmt.Stringer
}

// openSource picks the document source. Files named on the command line win
// over the configured source.
func openSource(ctx context.Context, cfg *config.Config, args []string) (namedSource, io.Closer, error) {
	if len(args) > 0 {
		return source.NewFiles(args), nil, nil
	}
	switch cfg.Source.Kind {
	case config.SourcePostgres:
		db, err := source.Connect(ctx, cfg.Postgres, resilience.RetryConfig{
			MaxAttempts:  5,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return source.NewPostgres(db, cfg.Source.Query), db, nil
	default:
		return source.NewFiles(cfg.Source.Files), nil, nil
	}
}

// buildEngine loads every document from the selected source into a fresh
// engine.
func buildEngine(ctx context.Context, cfg *config.Config, args []string) (*indexer.Engine, analytics.LoadEvent, error) {
	src, closer, err := openSource(ctx, cfg, args)
	if err != nil {
		return nil, analytics.LoadEvent{}, err
	}
	if closer != nil {
		defer closer.Close()
	}

	start := time.Now()
	engine := indexer.NewEngine()
	n, err := engine.Load(ctx, src)
	if err != nil {
		return nil, analytics.LoadEvent{}, fmt.Errorf("loading %s: %w", src, err)
	}

	event := analytics.LoadEvent{
		Type:       analytics.EventBulkLoad,
		Source:     src.String(),
		Documents:  n,
		Distinct:   engine.DocCount(),
		Terms:      engine.TermCount(),
		DurationMs: time.Since(start).Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}
	slog.Info("index ready", "source", event.Source, "documents", event.Distinct, "terms", event.Terms)
	return engine, event, nil
}
