package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/andsearch/internal/indexer/index"
)

func newTermsCmd(global *globalOptions) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "terms [files...]",
		Short: "Index documents and list the vocabulary with document counts",
		Long: `Index the given files (or the configured source) and print every
indexed term with the number of documents containing it, most common first.

Examples:
  searcher terms docs/*.txt --top 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*global)
			if err != nil {
				return err
			}
			engine, _, err := buildEngine(cmd.Context(), cfg, args)
			if err != nil {
				return err
			}
			return printTerms(cmd.OutOrStdout(), engine.Terms(), top)
		},
	}

	cmd.Flags().IntVar(&top, "top", 0, "Only print the N most common terms (0 prints all)")

	return cmd
}

// printTerms orders entries by descending document count, ties by term.
func printTerms(out io.Writer, entries []index.TermEntry, top int) error {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Documents > entries[j].Documents
	})
	if top > 0 && len(entries) > top {
		entries = entries[:top]
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(out, "%6d  %s\n", e.Documents, e.Term); err != nil {
			return err
		}
	}
	return nil
}
