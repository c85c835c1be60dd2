package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/searcher/parser"
)

func newQueryCmd(a *app) *cobra.Command {
	var exact bool
	cmd := &cobra.Command{
		Use:   "query KEYWORD1 KEYWORD2",
		Short: "Print the top five documents containing either keyword",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := a.openAndBuild(cmd.Context())
			if err != nil {
				return err
			}
			for _, doc := range search(corpus, args[0], args[1], exact) {
				fmt.Fprintln(cmd.OutOrStdout(), doc)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&exact, "exact", false, "look keywords up exactly as typed")
	return cmd
}

func newPromptCmd(a *app) *cobra.Command {
	var exact bool
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Build the index, then answer pairs of words read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := a.openAndBuild(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			sc := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprintln(out, "Please enter two words to search the documents for:")
			for {
				fmt.Fprintln(out, "Enter word 1:")
				if !sc.Scan() {
					break
				}
				word1 := strings.TrimSpace(sc.Text())
				fmt.Fprintln(out, "Enter word 2:")
				if !sc.Scan() {
					break
				}
				word2 := strings.TrimSpace(sc.Text())
				fmt.Fprintf(out, "[%s]\n", strings.Join(search(corpus, word1, word2, exact), ", "))
			}
			return sc.Err()
		},
	}
	cmd.Flags().BoolVar(&exact, "exact", false, "look keywords up exactly as typed")
	return cmd
}

// search runs the ranked query. Unless exact is set, words are first reduced
// to keyword form the way documents were.
func search(corpus *indexer.Corpus, word1, word2 string, exact bool) []string {
	if !exact {
		word1 = parser.Normalize(word1, corpus.Tokenizer)
		word2 = parser.Normalize(word2, corpus.Tokenizer)
	}
	return executor.Query(corpus.Index, word1, word2)
}
