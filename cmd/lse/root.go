package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer/source"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/postgres"
)

// app carries what every subcommand shares once flags are parsed.
type app struct {
	configPath string
	overrides  config.IndexerConfig

	cfg      *config.Config
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "lse",
		Short:        "keyword search engine",
		Long:         "lse indexes the documents named in a manifest and ranks them for two-keyword queries.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to YAML config file")
	flags.StringVar(&a.overrides.Source, "source", "", `document source: "dir" or "postgres"`)
	flags.StringVar(&a.overrides.DocsDir, "docs-dir", "", "directory documents are read from")
	flags.StringVar(&a.overrides.Manifest, "manifest", "", "name of the manifest listing documents")
	flags.StringVar(&a.overrides.NoiseWords, "noise-words", "", "name of the noise-word list")
	flags.IntVar(&a.overrides.LoadConcurrency, "load-concurrency", 0, "documents read in parallel")

	root.AddCommand(
		newBuildCmd(a),
		newQueryCmd(a),
		newPromptCmd(a),
		newServeCmd(a),
		newImportCmd(a),
		newEventsCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	o := a.overrides
	if o.Source != "" {
		cfg.Indexer.Source = o.Source
	}
	if o.DocsDir != "" {
		cfg.Indexer.DocsDir = o.DocsDir
	}
	if o.Manifest != "" {
		cfg.Indexer.Manifest = o.Manifest
	}
	if o.NoiseWords != "" {
		cfg.Indexer.NoiseWords = o.NoiseWords
	}
	if o.LoadConcurrency > 0 {
		cfg.Indexer.LoadConcurrency = o.LoadConcurrency
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	a.cfg = cfg
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.New(a.registry)
	return nil
}

// backend is the opened document source. pg is nil for the directory source.
type backend struct {
	src source.DocumentSource
	pg  *postgres.Client
}

func (b *backend) Close() {
	if b.pg != nil {
		b.pg.Close()
	}
}

func (a *app) openBackend() (*backend, error) {
	switch a.cfg.Indexer.Source {
	case config.SourcePostgres:
		pg, err := postgres.New(a.cfg.Postgres)
		if err != nil {
			return nil, err
		}
		slog.Info("reading documents from postgres", "host", a.cfg.Postgres.Host, "table", pg.Table())
		return &backend{src: source.NewPostgresSource(pg.DB, pg.Table()), pg: pg}, nil
	default:
		slog.Info("reading documents from directory", "dir", a.cfg.Indexer.DocsDir)
		return &backend{src: source.NewDirSource(a.cfg.Indexer.DocsDir)}, nil
	}
}

// buildCorpus runs one build pass over the configured source.
func (a *app) buildCorpus(ctx context.Context, b *backend) (*indexer.Corpus, error) {
	engine := indexer.NewEngine(b.src, a.cfg.Indexer, a.metrics)
	return engine.BuildCorpus(ctx, a.cfg.Indexer.Manifest, a.cfg.Indexer.NoiseWords)
}

// openAndBuild is openBackend followed by buildCorpus; the backend is closed
// before returning.
func (a *app) openAndBuild(ctx context.Context) (*indexer.Corpus, error) {
	b, err := a.openBackend()
	if err != nil {
		return nil, err
	}
	defer b.Close()
	return a.buildCorpus(ctx, b)
}
