// Package queue provides the bounded in-memory queues a pairing channel uses
// for its inbound frames and its optional outbound buffer.
package queue

import (
	"context"
	"sync"

	"github.com/okian/duoquiz/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 64
	defaultQueueName     = "queue"
)

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue[T any] interface {
	// Enqueue adds an item. Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, item T) bool

	// Dequeue returns a channel that receives items in FIFO order.
	// The channel is closed when the queue is closed or ctx is done.
	Dequeue(ctx context.Context) <-chan T

	// Len returns the current number of queued items.
	Len() int

	// Close stops accepting items. Items already queued can still be drained.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue[T any] struct {
	items    chan T
	capacity int
	name     string

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue[T any](opts ...Option) *InMemoryQueue[T] {
	cfg := config{capacity: defaultQueueCapacity, name: defaultQueueName}
	for _, opt := range opts {
		opt(&cfg)
	}

	q := &InMemoryQueue[T]{
		items:    make(chan T, cfg.capacity),
		capacity: cfg.capacity,
		name:     cfg.name,
	}
	metrics.UpdateQueue(q.name, 0, q.capacity)
	return q
}

// Enqueue adds an item to the queue without blocking.
func (q *InMemoryQueue[T]) Enqueue(ctx context.Context, item T) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError(q.name, "closed")
		return false
	}
	if ctx.Err() != nil {
		metrics.RecordQueueEnqueueError(q.name, "context_cancelled")
		return false
	}

	select {
	case q.items <- item:
		metrics.RecordQueueEnqueue(q.name)
		metrics.UpdateQueue(q.name, len(q.items), q.capacity)
		return true
	default:
		metrics.RecordQueueEnqueueError(q.name, "queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive items as they become available.
func (q *InMemoryQueue[T]) Dequeue(ctx context.Context) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-q.items:
				if !ok {
					return
				}
				select {
				case out <- item:
					metrics.RecordQueueDequeue(q.name)
					metrics.UpdateQueue(q.name, len(q.items), q.capacity)
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// TryDequeue takes the head item if one is waiting.
func (q *InMemoryQueue[T]) TryDequeue() (T, bool) {
	select {
	case item, ok := <-q.items:
		if ok {
			metrics.RecordQueueDequeue(q.name)
			metrics.UpdateQueue(q.name, len(q.items), q.capacity)
		}
		return item, ok
	default:
		var zero T
		return zero, false
	}
}

// Drain removes and returns every waiting item in order.
func (q *InMemoryQueue[T]) Drain() []T {
	var out []T
	for {
		item, ok := q.TryDequeue()
		if !ok {
			return out
		}
		out = append(out, item)
	}
}

// Len returns the current number of queued items.
func (q *InMemoryQueue[T]) Len() int {
	return len(q.items)
}

// Cap returns the queue capacity.
func (q *InMemoryQueue[T]) Cap() int {
	return q.capacity
}

// Close gracefully shuts down the queue.
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

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue[T]) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
