package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/andsearch/pkg/errors"
)

func writeDocs(t *testing.T, docs ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(docs))
	for i, d := range docs {
		p := filepath.Join(dir, string(rune('a'+i))+".txt")
		require.NoError(t, os.WriteFile(p, []byte(d), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func TestFiles_ReadsInOrderVerbatim(t *testing.T) {
	docs := []string{"Title One\nbody, one!", "Title Two\n\tbody two\n", ""}
	paths := writeDocs(t, docs...)

	got, err := NewFiles(paths).Documents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, docs, got)
}

func TestFiles_MissingFile(t *testing.T) {
	paths := writeDocs(t, "exists")
	paths = append(paths, filepath.Join(t.TempDir(), "missing.txt"))

	_, err := NewFiles(paths).Documents(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
	assert.Contains(t, err.Error(), "missing.txt")
}

func TestFiles_NoPaths(t *testing.T) {
	_, err := NewFiles(nil).Documents(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

type fakeQuerier struct {
	rows  []string
	err   error
	query string
}

func (f *fakeQuerier) QueryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	f.query = query
	return f.rows, f.err
}

func TestPostgres_Documents(t *testing.T) {
	q := &fakeQuerier{rows: []string{"a b c d", "a b c z"}}
	got, err := NewPostgres(q, "SELECT body FROM documents").Documents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a b c d", "a b c z"}, got)
	assert.Equal(t, "SELECT body FROM documents", q.query)
}

func TestPostgres_Error(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := NewPostgres(&fakeQuerier{err: boom}, "SELECT 1").Documents(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestIsConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "bad password", err: fmt.Errorf("pinging postgres: %w", &pq.Error{Code: "28P01"}), want: true},
		{name: "missing database", err: &pq.Error{Code: "3D000"}, want: true},
		{name: "server starting", err: &pq.Error{Code: "57P03"}, want: false},
		{name: "network", err: errors.New("dial tcp: connection refused"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isConfigError(tt.err))
		})
	}
}
