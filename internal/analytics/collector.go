// Package analytics buffers query events and publishes them to Kafka off the
// request path.
package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/andsearch/pkg/kafka"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

const publishTimeout = 5 * time.Second

type Collector struct {
	producer Publisher
	eventCh  chan interface{}
	logger   *slog.Logger
	done     chan struct{}
	onDrop   func()

	mu     sync.RWMutex
	closed bool
}

// NewCollector creates a collector with a buffer of bufferSize events.
// onDrop, if non-nil, is called for every event dropped on a full buffer.
func NewCollector(producer Publisher, bufferSize int, onDrop func()) *Collector {
	if bufferSize <= 0 {
		bufferSize = 10000
	}
	return &Collector{
		producer: producer,
		eventCh:  make(chan interface{}, bufferSize),
		logger:   slog.Default().With("component", "analytics-collector"),
		done:     make(chan struct{}),
		onDrop:   onDrop,
	}
}

// Start publishes buffered events until Close. Cancelling ctx does not stop
// the loop; each publish runs on a context detached from ctx's cancellation
// and bounded by publishTimeout, so events tracked during shutdown still go
// out.
func (c *Collector) Start(ctx context.Context) {
	base := context.WithoutCancel(ctx)
	go func() {
		defer close(c.done)
		for event := range c.eventCh {
			c.publish(base, event)
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh))
}

// Track enqueues event without blocking. Events are dropped when the buffer
// is full or the collector is closed.
func (c *Collector) Track(event interface{}) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("analytics event dropped (buffer full)")
		if c.onDrop != nil {
			c.onDrop()
		}
	}
}

// Close stops accepting events and waits for the buffered ones to be
// published.
func (c *Collector) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.eventCh)
	c.mu.Unlock()
	<-c.done
}

func (c *Collector) publish(ctx context.Context, event interface{}) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := c.producer.Publish(ctx, kafka.Event{
		Key:   "analytics",
		Value: event,
	}); err != nil {
		c.logger.Error("failed to publish analytics event", "error", err)
	}
}
