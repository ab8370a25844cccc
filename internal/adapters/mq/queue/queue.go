// Package queue buffers vote records between the vote endpoint and the
// journal workers. The in-memory bounded queue is the only implementation;
// losing a journal entry on crash costs analytics, not ratings.
package queue

import (
	"context"
	"sync"

	"github.com/redflagduel/arena/internal/domain/model"
	"github.com/redflagduel/arena/pkg/metrics"
)

// defaultCapacity bounds the journal backlog.
const defaultCapacity = 10000

// Record is the payload type flowing through the queue.
type Record = model.VoteRecord

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a record. Returns false when the queue is full or
	// closed.
	Enqueue(ctx context.Context, rec Record) bool

	// Dequeue returns a channel yielding records until the queue closes.
	Dequeue(ctx context.Context) <-chan Record

	// Len returns the current backlog size.
	Len(ctx context.Context) int

	// Close stops the queue; the dequeue channel is closed after drain.
	Close() error
}

// InMemoryQueue implements Queue on a buffered channel.
type InMemoryQueue struct {
	records chan Record
	mu      sync.RWMutex
	closed  bool
}

// Option applies a configuration option to the InMemoryQueue.
type Option func(*config)

type config struct {
	capacity int
}

// WithCapacity bounds the queue backlog.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// NewInMemoryQueue creates a bounded in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	cfg := config{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	metrics.UpdateJournalQueueSize(0)
	return &InMemoryQueue{records: make(chan Record, cfg.capacity)}
}

// Enqueue adds a record, refusing on backpressure or shutdown.
func (q *InMemoryQueue) Enqueue(ctx context.Context, rec Record) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}
	select {
	case q.records <- rec:
		metrics.UpdateJournalQueueSize(len(q.records))
		return true
	default:
		return false
	}
}

// Dequeue exposes the record channel.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Record {
	return q.records
}

// Len returns the current backlog size.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.records)
}

// Close stops the queue. Workers drain whatever is already buffered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.records)
	return nil
}
