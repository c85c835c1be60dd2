package analytics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/kafka"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// Collector hands search events to the aggregator synchronously and to the
// publisher from a background goroutine. Track never blocks the query path.
type Collector struct {
	publisher  Publisher
	aggregator *Aggregator
	eventCh    chan SearchEvent
	stop       chan struct{}
	done       chan struct{}
	logger     *slog.Logger

	mu      sync.RWMutex
	started bool
	closed  bool
}

// NewCollector returns a Collector. publisher and aggregator may be nil.
func NewCollector(publisher Publisher, aggregator *Aggregator, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	return &Collector{
		publisher:  publisher,
		aggregator: aggregator,
		eventCh:    make(chan SearchEvent, bufferSize),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "analytics-collector"),
	}
}

// Start launches the publishing loop. It returns once ctx is done or Close
// is called, after draining buffered events.
func (c *Collector) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	go func() {
		defer close(c.done)
		for {
			select {
			case event := <-c.eventCh:
				c.publish(ctx, event)
			case <-c.stop:
				c.drain()
				return
			case <-ctx.Done():
				c.drain()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh), "publishing", c.publisher != nil)
}

// Track records event. After Close the event is still aggregated but no
// longer published.
func (c *Collector) Track(event SearchEvent) {
	if c.aggregator != nil {
		c.aggregator.Record(event)
	}
	if c.publisher == nil {
		return
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("search event dropped (buffer full)", "query", event.Query)
	}
}

// Close stops accepting events and waits for the loop started by Start to
// publish what is buffered. It is safe to call more than once.
func (c *Collector) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	started := c.started
	close(c.stop)
	c.mu.Unlock()
	if started {
		<-c.done
	}
}

// Aggregator returns the aggregator events are recorded into, or nil.
func (c *Collector) Aggregator() *Aggregator {
	return c.aggregator
}

func (c *Collector) publish(ctx context.Context, event SearchEvent) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, kafka.Event{Key: event.key(), Value: event}); err != nil {
		c.logger.Error("failed to publish search event", "error", err)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.publish(context.Background(), event)
		default:
			return
		}
	}
}
