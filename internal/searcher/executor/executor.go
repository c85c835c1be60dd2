package executor

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/metrics"
)

// SearchResult is the answer to one OR query.
type SearchResult struct {
	Query     string             `json:"query"`
	Keywords  []string           `json:"keywords"`
	Results   []string           `json:"results"`
	Ranked    []ranker.ScoredDoc `json:"ranked"`
	TermStats map[string]int     `json:"term_stats"`
}

// Query returns up to five documents containing kw1 or kw2, most frequent
// first, ties going to kw1. Keywords are looked up exactly as given; an
// absent keyword contributes nothing.
func Query(idx *index.KeywordIndex, kw1, kw2 string) []string {
	return ranker.DocIDs(ranker.Rank(lookup(idx, kw1, kw2), ranker.DefaultLimit))
}

func lookup(idx *index.KeywordIndex, keywords ...string) []index.OccurrenceList {
	lists := make([]index.OccurrenceList, len(keywords))
	for i, kw := range keywords {
		if kw == "" {
			continue
		}
		lists[i] = idx.Lookup(kw)
	}
	return lists
}

// Executor runs parsed queries against one index and records query metrics.
type Executor struct {
	index   *index.KeywordIndex
	limit   int
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New returns an Executor over idx returning at most limit documents per
// query. A limit outside 1..ranker.DefaultLimit means ranker.DefaultLimit.
// m may be nil.
func New(idx *index.KeywordIndex, limit int, m *metrics.Metrics) *Executor {
	if limit < 1 || limit > ranker.DefaultLimit {
		limit = ranker.DefaultLimit
	}
	return &Executor{
		index:   idx,
		limit:   limit,
		metrics: m,
		logger:  slog.Default().With("component", "query-executor"),
	}
}

// Execute ranks the documents matching plan's keyword pair.
func (e *Executor) Execute(ctx context.Context, plan *parser.QueryPlan) (*SearchResult, error) {
	start := time.Now()
	kw1, kw2 := plan.Pair()
	lists := lookup(e.index, kw1, kw2)

	termStats := make(map[string]int, 2)
	for i, kw := range []string{kw1, kw2} {
		if kw != "" {
			termStats[kw] = len(lists[i])
		}
	}
	ranked := ranker.Rank(lists, e.limit)
	result := &SearchResult{
		Query:     plan.RawQuery,
		Keywords:  []string{kw1, kw2},
		Results:   ranker.DocIDs(ranked),
		Ranked:    ranked,
		TermStats: termStats,
	}

	if e.metrics != nil {
		resultType := "hit"
		if len(ranked) == 0 {
			resultType = "zero_result"
		}
		e.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
		e.metrics.SearchResultsCount.Observe(float64(len(ranked)))
	}
	e.logger.Debug("query executed",
		"query", plan.RawQuery,
		"keywords", result.Keywords,
		"results", len(ranked),
		"elapsed", time.Since(start),
	)
	return result, ctx.Err()
}

// Index returns the index queries run against.
func (e *Executor) Index() *index.KeywordIndex {
	return e.index
}

// Limit is the number of documents a query returns at most.
func (e *Executor) Limit() int {
	return e.limit
}
