package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer/index"
)

func newBuildCmd(a *app) *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the index and print its statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := a.openAndBuild(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			stats := corpus.Index.Stats()
			fmt.Fprintf(out, "documents:   %d\n", stats.Documents)
			fmt.Fprintf(out, "keywords:    %d\n", stats.Keywords)
			fmt.Fprintf(out, "occurrences: %d\n", stats.Occurrences)
			fmt.Fprintf(out, "tokens:      %d\n", corpus.Tokens)
			fmt.Fprintf(out, "elapsed:     %s\n", corpus.Elapsed)
			if dump {
				for _, entry := range corpus.Index.Snapshot() {
					fmt.Fprintf(out, "%s: %s\n", entry.Keyword, formatOccurrences(entry.Occurrences))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "print every keyword with its occurrence list")
	return cmd
}

func formatOccurrences(occs index.OccurrenceList) string {
	parts := make([]string, len(occs))
	for i, o := range occs {
		parts[i] = fmt.Sprintf("(%s,%d)", o.Document, o.Frequency)
	}
	return strings.Join(parts, " ")
}
