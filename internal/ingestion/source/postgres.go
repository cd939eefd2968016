package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/Adithya-Monish-Kumar-K/andsearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/andsearch/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/andsearch/pkg/resilience"
)

// Querier is satisfied by *postgres.Client.
type Querier interface {
	QueryStrings(ctx context.Context, query string, args ...any) ([]string, error)
}

// Postgres loads one document per row of a single-column query.
type Postgres struct {
	db     Querier
	query  string
	logger *slog.Logger
}

func NewPostgres(db Querier, query string) *Postgres {
	return &Postgres{
		db:     db,
		query:  query,
		logger: slog.Default().With("component", "postgres-source"),
	}
}

func (p *Postgres) String() string {
	return "postgres"
}

func (p *Postgres) Documents(ctx context.Context) ([]string, error) {
	docs, err := p.db.QueryStrings(ctx, p.query)
	if err != nil {
		return nil, fmt.Errorf("loading documents from postgres: %w", err)
	}
	p.logger.Info("documents fetched", "count", len(docs))
	return docs, nil
}

// Connect opens the database, retrying while it comes up.
func Connect(ctx context.Context, cfg config.PostgresConfig, retry resilience.RetryConfig) (*postgres.Client, error) {
	var client *postgres.Client
	err := resilience.Retry(ctx, "postgres-connect", retry, func() error {
		c, err := postgres.New(ctx, cfg)
		if err != nil {
			if isConfigError(err) {
				return resilience.Permanent(err)
			}
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// isConfigError reports server rejections that retrying cannot fix: bad
// credentials (class 28) or a missing database (class 3D).
func isConfigError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code.Class() {
	case "28", "3D":
		return true
	}
	return false
}
