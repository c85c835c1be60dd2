// Package analytics records what users search for. Events feed an in-process
// Aggregator and, when brokers are configured, a Kafka topic that `lse
// events` aggregates from other processes.
package analytics

import "time"

// SearchEvent describes one answered search.
type SearchEvent struct {
	Query     string    `json:"query"`
	Keywords  []string  `json:"keywords"`
	Results   int       `json:"results"`
	CacheHit  bool      `json:"cache_hit"`
	LatencyMs int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// key partitions events by their first keyword.
func (e SearchEvent) key() string {
	for _, kw := range e.Keywords {
		if kw != "" {
			return kw
		}
	}
	return "_"
}
