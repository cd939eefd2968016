package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/andsearch/pkg/kafka"
)

type recordingPublisher struct {
	mu      sync.Mutex
	events  []kafka.Event
	ctxErrs []error
	err     error
}

func (p *recordingPublisher) Publish(ctx context.Context, event kafka.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func TestCollector_PublishesTrackedEvents(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewCollector(pub, 10, nil)
	c.Start(context.Background())

	c.Track(SearchEvent{Type: EventSearch, Query: "a z", TotalHits: 1, Timestamp: time.Now()})
	c.Track(SearchEvent{Type: EventZeroResult, Query: "x"})
	c.Close()

	require.Equal(t, 2, pub.count())
	assert.Equal(t, "analytics", pub.events[0].Key)
	ev, ok := pub.events[0].Value.(SearchEvent)
	require.True(t, ok)
	assert.Equal(t, "a z", ev.Query)
}

func TestCollector_DropsWhenFull(t *testing.T) {
	pub := &recordingPublisher{}
	dropped := 0
	c := NewCollector(pub, 1, func() { dropped++ })

	// Not started: the buffer holds one event, the rest are dropped.
	c.Track(SearchEvent{Query: "1"})
	c.Track(SearchEvent{Query: "2"})
	c.Track(SearchEvent{Query: "3"})
	assert.Equal(t, 2, dropped)

	c.Start(context.Background())
	c.Close()
	assert.Equal(t, 1, pub.count())
}

func TestCollector_PublishErrorsDoNotStopLoop(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	c := NewCollector(pub, 10, nil)
	c.Start(context.Background())
	c.Track(SearchEvent{Query: "1"})
	c.Track(SearchEvent{Query: "2"})
	c.Close()
	assert.Equal(t, 2, pub.count())
}

func TestCollector_TrackAfterCloseIsIgnored(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewCollector(pub, 10, nil)
	c.Start(context.Background())
	c.Close()
	c.Close()

	assert.NotPanics(t, func() { c.Track(SearchEvent{Query: "late"}) })
	assert.Equal(t, 0, pub.count())
}

func TestCollector_PublishesAfterContextCancelled(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewCollector(pub, 10, nil)
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	cancel()

	c.Track(SearchEvent{Query: "during shutdown"})
	c.Track(SearchEvent{Query: "still during shutdown"})
	c.Close()

	require.Equal(t, 2, pub.count())
	for _, err := range pub.ctxErrs {
		assert.NoError(t, err)
	}
}
