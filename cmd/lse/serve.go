package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/middleware"
	pkgredis "github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/redis"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Build the index and serve the search API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	b, err := a.openBackend()
	if err != nil {
		return err
	}
	defer b.Close()
	corpus, err := a.buildCorpus(ctx, b)
	if err != nil {
		return err
	}

	h, cleanup := a.newHTTPHandler(ctx, corpus, b)
	defer cleanup()

	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port, a.registry)
		defer shutdownMetrics(context.Background())
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("search service listening",
		"addr", server.Addr,
		"documents", len(corpus.Documents),
		"keywords", corpus.Index.KeywordCount(),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http: %w", err)
	}
	// Shutdown returns once in-flight handlers finish; cleanup must not run
	// before that.
	<-shutdownDone
	slog.Info("search service stopped")
	return nil
}

// newHTTPHandler wires the search API over corpus. Redis and Kafka are used
// when configured and skipped with a warning when unreachable. cleanup
// releases them.
func (a *app) newHTTPHandler(ctx context.Context, corpus *indexer.Corpus, b *backend) (http.Handler, func()) {
	cfg := a.cfg
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	checker := health.NewChecker()
	checker.Register("index", func(context.Context) health.ComponentHealth {
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d documents, %d keywords", corpus.Index.DocCount(), corpus.Index.KeywordCount()),
		}
	})
	if b != nil && b.pg != nil {
		checker.Register("postgres", health.Ping(b.pg.DB.PingContext, false))
	}

	var queryCache *cache.QueryCache
	if cfg.Redis.Addr != "" {
		client, err := pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, search caching disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			closers = append(closers, func() { client.Close() })
			generation := strconv.FormatInt(time.Now().UnixNano(), 36)
			queryCache = cache.New(client, cfg.Redis.CacheTTL, generation, a.metrics)
			checker.Register("redis", health.Ping(client.Ping, true))
			slog.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL, "generation", generation)
		}
	}

	var publisher analytics.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka)
		closers = append(closers, func() { producer.Close() })
		publisher = producer
		slog.Info("publishing search events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.SearchTopic)
	}
	collector := analytics.NewCollector(publisher, analytics.NewAggregator(), cfg.Kafka.BufferSize)
	collector.Start(ctx)
	closers = append(closers, collector.Close)

	exec := executor.New(corpus.Index, cfg.Search.ResultLimit, a.metrics)
	h := handler.New(exec, corpus.Tokenizer, queryCache, collector, a.metrics)

	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	mws := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.AccessLog,
		middleware.CORS(cfg.Server.AllowOrigins),
		middleware.Metrics(a.metrics),
	}
	if cfg.Server.RateLimit > 0 {
		mws = append(mws, middleware.RateLimit(middleware.NewLimiter(ctx, cfg.Server.RateLimit, time.Minute)))
	}
	mws = append(mws, middleware.Timeout(cfg.Server.RequestTimeout))
	return middleware.Chain(mux, mws...), cleanup
}
