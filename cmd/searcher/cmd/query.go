package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/andsearch/internal/searcher/handler"
)

type queryOptions struct {
	limit  int
	format string
}

func newQueryCmd(global *globalOptions) *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query <query> [files...]",
		Short: "Index documents and print the ones matching every query term",
		Long: `Index the given files (or the configured source), run one AND query
and print the matches.

Examples:
  searcher query "open source" docs/*.txt
  searcher query "a z" --format json --config configs/development.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*global)
			if err != nil {
				return err
			}
			if opts.limit <= 0 {
				opts.limit = cfg.Search.MaxMatches
			}
			return runQuery(cmd.Context(), cmd.OutOrStdout(), args[0], args[1:], opts, cfg.Search.PreviewTerms, func(ctx context.Context, files []string) (searcher, error) {
				engine, _, err := buildEngine(ctx, cfg, files)
				return engine, err
			})
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of matches to print (default search.maxMatches)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

type searcher interface {
	Search(query string) []string
}

func runQuery(
	ctx context.Context,
	out io.Writer,
	query string,
	files []string,
	opts queryOptions,
	previewTerms int,
	build func(ctx context.Context, files []string) (searcher, error),
) error {
	engine, err := build(ctx, files)
	if err != nil {
		return err
	}

	matches := engine.Search(query)
	total := len(matches)
	if opts.limit > 0 && len(matches) > opts.limit {
		matches = matches[:opts.limit]
	}

	items := make([]handler.Item, 0, len(matches))
	for _, doc := range matches {
		items = append(items, handler.Format(doc, previewTerms))
	}

	switch strings.ToLower(opts.format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(handler.QueryResponse{Items: items})
	case "text", "":
		if total == 0 {
			fmt.Fprintf(out, "No documents match %q\n", query)
			return nil
		}
		fmt.Fprintf(out, "%d of %d matching documents:\n", len(items), total)
		for i, item := range items {
			fmt.Fprintf(out, "%2d. %s\n", i+1, item.Title)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", opts.format)
	}
}
