package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/andsearch/internal/searcher/handler"
)

func writeFiles(t *testing.T, docs ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(docs))
	for i, doc := range docs {
		p := filepath.Join(dir, string(rune('a'+i))+".txt")
		require.NoError(t, os.WriteFile(p, []byte(doc), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestQueryCommand_Text(t *testing.T) {
	files := writeFiles(t, "a b c d", "a b c z")

	out, err := runRoot(t, append([]string{"query", "a z", "--log-level", "error"}, files...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "1 of 1 matching documents:")
	assert.Contains(t, out, " 1. a b c z")
	assert.NotContains(t, out, "a b c d")
}

func TestQueryCommand_NoMatches(t *testing.T) {
	files := writeFiles(t, "a b c d")

	out, err := runRoot(t, append([]string{"query", "x y", "--log-level", "error"}, files...)...)
	require.NoError(t, err)
	assert.Contains(t, out, `No documents match "x y"`)
}

func TestQueryCommand_JSON(t *testing.T) {
	files := writeFiles(t, "Go\nA language.", "Rust\nAnother language.")

	out, err := runRoot(t, append([]string{"query", "language", "-f", "json", "-n", "1", "--log-level", "error"}, files...)...)
	require.NoError(t, err)

	var resp handler.QueryResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Go", resp.Items[0].Title)
	assert.Equal(t, "A language.", resp.Items[0].Body)
}

func TestQueryCommand_MissingFile(t *testing.T) {
	_, err := runRoot(t, "query", "a", filepath.Join(t.TempDir(), "missing.txt"), "--log-level", "error")
	require.Error(t, err)
}

func TestQueryCommand_RequiresQuery(t *testing.T) {
	_, err := runRoot(t, "query")
	require.Error(t, err)
}

func TestRunQuery_UnknownFormat(t *testing.T) {
	build := func(ctx context.Context, files []string) (searcher, error) {
		return stubSearcher{"a"}, nil
	}
	err := runQuery(context.Background(), &bytes.Buffer{}, "a", nil, queryOptions{format: "xml"}, 50, build)
	assert.ErrorContains(t, err, "unknown output format")
}

type stubSearcher []string

func (s stubSearcher) Search(string) []string { return s }

func TestTermsCommand(t *testing.T) {
	files := writeFiles(t, "a b c d", "a b c z", "A!")

	out, err := runRoot(t, append([]string{"terms", "--top", "2", "--log-level", "error"}, files...)...)
	require.NoError(t, err)
	assert.Equal(t, "     3  a\n     2  b\n", out)
}
