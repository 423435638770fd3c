// Package queue buffers submitted strokes between the HTTP layer and the
// recognition workers.
package queue

import (
	"context"
	"sync"

	"github.com/okian/geodraw/internal/domain/model"
	"github.com/okian/geodraw/pkg/metrics"
)

const defaultQueueCapacity = 10000

// Stroke is the payload type flowing through the queue.
type Stroke = model.Stroke

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a stroke to the queue.
	// Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, s Stroke) bool

	// Dequeue returns the channel workers receive strokes from. It is closed
	// once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Stroke

	// Len returns the current number of queued strokes.
	Len(ctx context.Context) int

	// Close stops accepting strokes. Strokes already queued stay readable.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	strokes  chan Stroke
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.strokes = make(chan Stroke, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)
	return q
}

// Enqueue adds a stroke to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s Stroke) bool { //nolint:gocritic // hugeParam: passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}
	if ctx.Err() != nil {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	}

	select {
	case q.strokes <- s:
		metrics.RecordQueueEnqueue()
		q.observe()
		return true
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns the channel strokes are delivered on. Every caller shares
// the same channel, so each stroke reaches exactly one worker.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Stroke {
	return q.strokes
}

// Len returns the current number of queued strokes.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return q.observe()
}

func (q *InMemoryQueue) observe() int {
	size := len(q.strokes)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}

// Capacity returns the maximum number of queued strokes.
func (q *InMemoryQueue) Capacity() int { return q.capacity }

// Close stops accepting strokes. It is safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.strokes)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
