// Package source supplies whole documents to the indexer's bulk load, either
// from files on disk or from a PostgreSQL query.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/Adithya-Monish-Kumar-K/andsearch/pkg/errors"
)

// maxParallelReads bounds concurrent file reads.
const maxParallelReads = 8

// Files reads each path as one document, verbatim.
type Files struct {
	paths  []string
	logger *slog.Logger
}

func NewFiles(paths []string) *Files {
	return &Files{
		paths:  paths,
		logger: slog.Default().With("component", "file-source"),
	}
}

func (f *Files) String() string {
	return fmt.Sprintf("files(%d)", len(f.paths))
}

// Documents reads every file concurrently and returns their contents in the
// order the paths were given.
func (f *Files) Documents(ctx context.Context) ([]string, error) {
	if len(f.paths) == 0 {
		return nil, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "no document files given")
	}
	docs := make([]string, len(f.paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, path := range f.paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("reading %s: %w", path, apperrors.ErrDocumentNotFound)
				}
				return fmt.Errorf("reading %s: %w", path, err)
			}
			docs[i] = string(data)
			f.logger.Debug("document read", "path", path, "size_bytes", len(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
