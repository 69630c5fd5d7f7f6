// Package queue provides the bounded in-memory queue that feeds the batch
// worker pool.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/banquet/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue[T any] interface {
	// Enqueue adds an item without blocking. It fails with ErrFull when the
	// queue is at capacity and ErrClosed after Close.
	Enqueue(ctx context.Context, item T) error

	// EnqueueAll adds every item or none. It fails with ErrFull when the
	// free capacity is smaller than len(items).
	EnqueueAll(ctx context.Context, items []T) error

	// Dequeue returns the channel items are delivered on. The channel is
	// closed once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan T

	// Len returns the current number of queued items.
	Len(ctx context.Context) int

	// Close stops accepting items. Queued items are still delivered.
	Close() error

	// IsClosed reports whether Close was called.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue[T any] struct {
	items    chan T
	capacity int

	mu     sync.RWMutex
	closed bool
}

var _ Queue[int] = (*InMemoryQueue[int])(nil)

// NewInMemoryQueue creates a new in-memory queue.
func NewInMemoryQueue[T any](opts ...Option) *InMemoryQueue[T] {
	cfg := config{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}

	q := &InMemoryQueue[T]{
		items:    make(chan T, cfg.capacity),
		capacity: cfg.capacity,
	}
	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue implements Queue.
func (q *InMemoryQueue[T]) Enqueue(ctx context.Context, item T) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueRejected("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueRejected("context_cancelled")
		return fmt.Errorf("enqueue: %w", err)
	}

	select {
	case q.items <- item:
		metrics.UpdateQueueSize(len(q.items))
		return nil
	default:
		metrics.RecordQueueRejected("full")
		return ErrFull
	}
}

// EnqueueAll implements Queue. The write lock keeps other producers out,
// so once free capacity is checked every send succeeds without blocking.
func (q *InMemoryQueue[T]) EnqueueAll(ctx context.Context, items []T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		metrics.RecordQueueRejected("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueRejected("context_cancelled")
		return fmt.Errorf("enqueue: %w", err)
	}
	if len(items) > q.capacity-len(q.items) {
		metrics.RecordQueueRejected("full")
		return ErrFull
	}

	for _, item := range items {
		q.items <- item
	}
	metrics.UpdateQueueSize(len(q.items))
	return nil
}

// Dequeue implements Queue. Every caller receives from the same channel,
// so concurrent consumers share the work.
func (q *InMemoryQueue[T]) Dequeue(_ context.Context) <-chan T {
	return q.items
}

// Len implements Queue.
func (q *InMemoryQueue[T]) Len(_ context.Context) int {
	size := len(q.items)
	metrics.UpdateQueueSize(size)
	return size
}

// Cap returns the configured capacity.
func (q *InMemoryQueue[T]) Cap() int {
	return q.capacity
}

// Close implements Queue. It is safe to call more than once.
func (q *InMemoryQueue[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed implements Queue.
func (q *InMemoryQueue[T]) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
