package analytics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/kafka"
)

const (
	topN         = 10
	maxLatencies = 10000
)

// Stats is a point-in-time summary of recorded searches.
type Stats struct {
	TotalSearches     int64          `json:"total_searches"`
	CacheHits         int64          `json:"cache_hits"`
	ZeroResultCount   int64          `json:"zero_result_count"`
	AvgLatencyMs      float64        `json:"avg_latency_ms"`
	P50LatencyMs      int64          `json:"p50_latency_ms"`
	P95LatencyMs      int64          `json:"p95_latency_ms"`
	TopKeywords       []KeywordCount `json:"top_keywords"`
	ZeroResultQueries []KeywordCount `json:"zero_result_queries"`
	Since             time.Time      `json:"since"`
}

// KeywordCount is how many searches named a keyword.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int64  `json:"count"`
}

// Aggregator keeps running totals over search events. Latencies are kept in
// a ring of the most recent maxLatencies samples.
type Aggregator struct {
	mu            sync.Mutex
	total         int64
	cacheHits     int64
	zeroResults   int64
	latencies     []int64
	next          int
	keywordCounts map[string]int64
	zeroQueries   map[string]int64
	since         time.Time
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		latencies:     make([]int64, 0, 256),
		keywordCounts: make(map[string]int64),
		zeroQueries:   make(map[string]int64),
		since:         time.Now(),
	}
}

// Record adds one search to the running totals.
func (a *Aggregator) Record(e SearchEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.total++
	if e.CacheHit {
		a.cacheHits++
	}
	if e.Results == 0 {
		a.zeroResults++
		a.zeroQueries[e.Query]++
	}
	seen := make(map[string]bool, len(e.Keywords))
	for _, kw := range e.Keywords {
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		a.keywordCounts[kw]++
	}
	if len(a.latencies) < maxLatencies {
		a.latencies = append(a.latencies, e.LatencyMs)
	} else {
		a.latencies[a.next] = e.LatencyMs
		a.next = (a.next + 1) % maxLatencies
	}
}

// HandleMessage adapts the aggregator to a Kafka consumer. Undecodable
// messages are skipped so they do not block the partition.
func (a *Aggregator) HandleMessage() kafka.MessageHandler {
	return func(_ context.Context, _, value []byte) error {
		event, err := kafka.DecodeJSON[SearchEvent](value)
		if err != nil {
			return nil
		}
		a.Record(event)
		return nil
	}
}

// Stats returns the current summary.
func (a *Aggregator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	stats := Stats{
		TotalSearches:     a.total,
		CacheHits:         a.cacheHits,
		ZeroResultCount:   a.zeroResults,
		TopKeywords:       top(a.keywordCounts, topN),
		ZeroResultQueries: top(a.zeroQueries, topN),
		Since:             a.since,
	}
	if len(a.latencies) > 0 {
		sorted := append([]int64(nil), a.latencies...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
	}
	return stats
}

func percentile(sorted []int64, pct int) int64 {
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// top returns the n largest counts, ties broken alphabetically.
func top(counts map[string]int64, n int) []KeywordCount {
	result := make([]KeywordCount, 0, len(counts))
	for k, c := range counts {
		result = append(result, KeywordCount{Keyword: k, Count: c})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Keyword < result[j].Keyword
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
