package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/searcher/parser"
	apperrors "github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/metrics"
)

// Handler serves the search HTTP API.
type Handler struct {
	executor  *executor.Executor
	tokenizer *tokenizer.Tokenizer
	cache     *cache.QueryCache
	collector *analytics.Collector
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New returns the search API handler. queryCache, collector and m may be nil.
func New(
	exec *executor.Executor,
	tok *tokenizer.Tokenizer,
	queryCache *cache.QueryCache,
	collector *analytics.Collector,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		executor:  exec,
		tokenizer: tok,
		cache:     queryCache,
		collector: collector,
		metrics:   m,
		logger:    slog.Default().With("component", "search-handler"),
	}
}

// Register adds the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/keywords/{keyword}", h.Keyword)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
	mux.HandleFunc("GET /api/v1/analytics", h.Analytics)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
}

type searchResponse struct {
	*executor.SearchResult
	CacheHit  bool  `json:"cache_hit"`
	LatencyMs int64 `json:"latency_ms"`
}

// Search answers either ?q=cat+or+dog or ?kw1=cat&kw2=dog.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	params := r.URL.Query()
	var plan *parser.QueryPlan
	switch q := params.Get("q"); {
	case q != "":
		var err error
		if plan, err = parser.Parse(q, h.tokenizer); err != nil {
			h.writeError(w, err)
			return
		}
	case params.Get("kw1") != "" || params.Get("kw2") != "":
		plan = parser.FromKeywords(params.Get("kw1"), params.Get("kw2"), h.tokenizer)
	default:
		h.writeError(w, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest,
			"query parameter 'q' or 'kw1'/'kw2' is required"))
		return
	}

	kw1, kw2 := plan.Pair()
	limit := h.executor.Limit()
	compute := func() (*executor.SearchResult, error) {
		return h.executor.Execute(ctx, plan)
	}
	var (
		result   *executor.SearchResult
		cacheHit bool
		err      error
	)
	if h.cache != nil && !plan.Empty() {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, kw1, kw2, limit, compute)
	} else {
		result, err = compute()
	}
	if err != nil {
		log.Error("search failed", "query", plan.RawQuery, "error", err)
		h.writeError(w, err)
		return
	}
	// Cached and shared results carry the query text of whoever computed them.
	res := *result
	res.Query = plan.RawQuery

	elapsed := time.Since(start)
	latencyMs := elapsed.Milliseconds()
	if h.metrics != nil {
		status := "miss"
		if cacheHit {
			status = "hit"
		}
		h.metrics.SearchLatency.WithLabelValues(status).Observe(elapsed.Seconds())
	}
	log.Info("search completed",
		"query", plan.RawQuery,
		"keywords", []string{kw1, kw2},
		"returned", len(result.Results),
		"cache_hit", cacheHit,
		"latency_ms", latencyMs,
	)
	if h.collector != nil {
		h.collector.Track(analytics.SearchEvent{
			Query:     plan.RawQuery,
			Keywords:  []string{kw1, kw2},
			Results:   len(result.Results),
			CacheHit:  cacheHit,
			LatencyMs: latencyMs,
			Timestamp: time.Now().UTC(),
			RequestID: logger.RequestID(ctx),
		})
	}
	h.writeJSON(w, http.StatusOK, searchResponse{SearchResult: &res, CacheHit: cacheHit, LatencyMs: latencyMs})
}

// Keyword returns the occurrence list stored for one keyword.
func (h *Handler) Keyword(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("keyword")
	kw := parser.Normalize(raw, h.tokenizer)
	if kw == "" {
		h.writeError(w, apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest,
			"%q is not an indexable keyword", raw))
		return
	}
	occs := h.executor.Index().Lookup(kw)
	if occs == nil {
		h.writeError(w, apperrors.NotFoundf("keyword %q", kw))
		return
	}
	h.writeJSON(w, http.StatusOK, index.KeywordEntry{Keyword: kw, Occurrences: occs})
}

// Stats reports index size.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.executor.Index().Stats())
}

// Analytics reports aggregated search statistics.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	if h.collector == nil || h.collector.Aggregator() == nil {
		h.writeError(w, apperrors.New(apperrors.ErrUnavailable, http.StatusServiceUnavailable, "analytics is disabled"))
		return
	}
	h.writeJSON(w, http.StatusOK, h.collector.Aggregator().Stats())
}

// CacheStats reports query cache hits and misses.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

// CacheInvalidate flushes the query cache.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, apperrors.New(apperrors.ErrUnavailable, http.StatusServiceUnavailable, "caching is disabled"))
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

// writeError maps err onto its HTTP status. Internal failures are not
// described to the caller.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatusCode(err)
	message := err.Error()
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		message = "internal error"
	}
	h.writeJSON(w, status, map[string]string{"error": message})
}
