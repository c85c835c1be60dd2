// Package indexer runs the build pass: it loads the noise words, reads the
// manifest, counts every listed document and merges the counts into a
// keyword index.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer/loader"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer/source"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/metrics"
)

// Corpus is the outcome of a build pass.
type Corpus struct {
	Index     *index.KeywordIndex
	Tokenizer *tokenizer.Tokenizer
	Documents []string
	Tokens    int
	Elapsed   time.Duration
}

// Engine builds a keyword index from a manifest of documents.
type Engine struct {
	docs    source.DocumentSource
	cfg     config.IndexerConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewEngine returns an Engine reading every input from docs. m may be nil.
func NewEngine(docs source.DocumentSource, cfg config.IndexerConfig, m *metrics.Metrics) *Engine {
	if cfg.LoadConcurrency < 1 {
		cfg.LoadConcurrency = 1
	}
	return &Engine{
		docs:    docs,
		cfg:     cfg,
		metrics: m,
		logger:  slog.Default().With("component", "indexer"),
	}
}

// Build indexes every document named in the manifest and returns the index.
// Any unreadable input aborts the build; no partial index is returned.
func (e *Engine) Build(ctx context.Context, manifest, noiseWords string) (*index.KeywordIndex, error) {
	corpus, err := e.BuildCorpus(ctx, manifest, noiseWords)
	if err != nil {
		return nil, err
	}
	return corpus.Index, nil
}

// BuildCorpus is Build, also returning the tokenizer the index was built
// with so queries can be normalised the same way.
func (e *Engine) BuildCorpus(ctx context.Context, manifest, noiseWords string) (*Corpus, error) {
	start := time.Now()
	corpus, err := e.build(ctx, manifest, noiseWords)
	if e.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		e.metrics.IndexBuildsTotal.WithLabelValues(status).Inc()
		e.metrics.IndexBuildDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		e.logger.Error("index build failed", "manifest", manifest, "error", err)
		return nil, err
	}
	corpus.Elapsed = time.Since(start)
	if e.metrics != nil {
		e.metrics.IndexedKeywords.Set(float64(corpus.Index.KeywordCount()))
	}
	e.logger.Info("index built",
		"documents", len(corpus.Documents),
		"keywords", corpus.Index.KeywordCount(),
		"tokens", corpus.Tokens,
		"elapsed", corpus.Elapsed,
	)
	return corpus, nil
}

func (e *Engine) build(ctx context.Context, manifest, noiseWords string) (*Corpus, error) {
	noise, err := source.ReadLines(ctx, e.docs, noiseWords)
	if err != nil {
		return nil, fmt.Errorf("loading noise words: %w", err)
	}
	tok := tokenizer.New(noise)
	e.logger.Debug("noise words loaded", "count", tok.NoiseWordCount())

	listed, err := source.ReadLines(ctx, e.docs, manifest)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}
	names := uniqueNames(listed)
	if len(names) != len(listed) {
		e.logger.Warn("manifest lists documents more than once, indexing each once",
			"listed", len(listed),
			"unique", len(names),
		)
	}

	corpus := &Corpus{
		Index:     index.NewKeywordIndex(),
		Tokenizer: tok,
		Documents: names,
	}
	if err := e.loadAndMerge(ctx, names, tok, corpus); err != nil {
		return nil, err
	}
	return corpus, nil
}

// loadAndMerge counts up to cfg.LoadConcurrency documents at a time but
// merges them strictly one after another in manifest order, so the index is
// the same as a fully sequential pass.
func (e *Engine) loadAndMerge(ctx context.Context, names []string, tok *tokenizer.Tokenizer, corpus *Corpus) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.LoadConcurrency)

	ready := make([]chan *loader.Result, len(names))
	for i := range ready {
		ready[i] = make(chan *loader.Result, 1)
	}
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, name := range names {
			g.Go(func() error {
				res, err := loader.Load(gctx, e.docs, name, tok)
				if err != nil {
					return err
				}
				ready[i] <- res
				return nil
			})
		}
	}()

	merged := 0
merge:
	for i := range names {
		select {
		case res := <-ready[i]:
			corpus.Index.Merge(res.Keywords)
			corpus.Tokens += res.Tokens
			merged++
			if e.metrics != nil {
				e.metrics.DocsIndexedTotal.Inc()
			}
			e.logger.Debug("document merged",
				"document", res.Document,
				"keywords", len(res.Keywords),
				"tokens", res.Tokens,
			)
		case <-gctx.Done():
			break merge
		}
	}

	<-launched
	if err := g.Wait(); err != nil {
		return err
	}
	if merged < len(names) {
		return fmt.Errorf("index build interrupted after %d of %d documents: %w", merged, len(names), ctx.Err())
	}
	return nil
}

func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
