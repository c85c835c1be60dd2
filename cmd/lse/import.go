package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer/source"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/postgres"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Copy the manifest, noise words and documents from the docs directory into postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			docs, err := collectDocuments(ctx, source.NewDirSource(a.cfg.Indexer.DocsDir),
				a.cfg.Indexer.Manifest, a.cfg.Indexer.NoiseWords)
			if err != nil {
				return err
			}
			pg, err := postgres.New(a.cfg.Postgres)
			if err != nil {
				return err
			}
			defer pg.Close()
			if err := pg.EnsureSchema(ctx); err != nil {
				return err
			}
			if err := pg.PutDocuments(ctx, docs); err != nil {
				return err
			}
			slog.Info("import complete", "table", pg.Table(), "rows", len(docs))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows into %s\n", len(docs), pg.Table())
			return nil
		},
	}
}

// collectDocuments reads the manifest, the noise-word list and every
// document the manifest names, in that order. Names are stored as written
// in the manifest so a postgres build resolves them unchanged.
func collectDocuments(ctx context.Context, src source.DocumentSource, manifest, noiseWords string) ([]postgres.Document, error) {
	names, err := source.ReadLines(ctx, src, manifest)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}
	seen := make(map[string]bool, len(names)+2)
	docs := make([]postgres.Document, 0, len(names)+2)
	for _, name := range append([]string{manifest, noiseWords}, names...) {
		if seen[name] {
			continue
		}
		seen[name] = true
		body, err := readAll(ctx, src, name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, postgres.Document{Name: name, Body: body})
	}
	return docs, nil
}

func readAll(ctx context.Context, src source.DocumentSource, name string) (string, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}
