// Package worker runs the asynchronous stroke pipeline: judge each queued
// stroke and record the verdict against its session.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/geodraw/internal/domain/game"
	"github.com/okian/geodraw/internal/domain/model"
	"github.com/okian/geodraw/pkg/logger"
	"github.com/okian/geodraw/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Recognizer judges a stroke.
type Recognizer interface {
	Judge(ctx context.Context, s model.Stroke) game.Verdict
}

// Recorder stores a verdict against the stroke's session.
type Recorder interface {
	Record(ctx context.Context, s model.Stroke, v game.Verdict) error
}

// Queue defines how workers receive strokes.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Stroke
}

// Worker processes strokes until its queue is closed.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker after the stroke in progress.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker over a Queue.
type InMemoryWorker struct {
	queue      Queue
	recognizer Recognizer
	recorder   Recorder
	name       string

	active    *atomic.Int64
	processed *atomic.Int64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker with configuration options.
func NewInMemoryWorker(queue Queue, recognizer Recognizer, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      queue,
		recognizer: recognizer,
		recorder:   recorder,
		name:       "worker",
		active:     new(atomic.Int64),
		processed:  new(atomic.Int64),
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named("worker")
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	strokes := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case s, ok := <-strokes:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			if err := w.process(ctx, s); err != nil {
				w.logger.Error(ctx, "error processing stroke", logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker and waits for it to exit.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, s model.Stroke) error { //nolint:gocritic // hugeParam: strokes travel by value
	start := time.Now()
	metrics.UpdateWorkerActiveCount(int(w.active.Add(1)))
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.active.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	v := w.recognizer.Judge(ctx, s)
	if err := w.recorder.Record(ctx, s, v); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "record_error")
		w.logger.Error(ctx, "recording verdict failed",
			logger.String("stroke_id", s.StrokeID),
			logger.String("session_id", s.SessionID),
			logger.Error(err),
		)
		return fmt.Errorf("record stroke %s: %w", s.StrokeID, err)
	}

	w.processed.Add(1)
	w.logger.Debug(ctx, "stroke judged",
		logger.String("stroke_id", s.StrokeID),
		logger.String("shape", v.Shape),
		logger.Float64("score", v.Score),
		logger.Bool("accepted", v.Accepted),
	)
	return nil
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	active    atomic.Int64
	processed atomic.Int64

	logger logger.Logger
}

// NewPool creates a worker pool. A non-positive count uses one worker per CPU.
func NewPool(workerCount int, queue Queue, recognizer Recognizer, recorder Recorder, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		w := NewInMemoryWorker(queue, recognizer, recorder, wopts...)
		w.active = &p.active
		w.processed = &p.processed
		p.workers[i] = w
	}
	probe := &InMemoryWorker{}
	for _, opt := range opts {
		opt(probe)
	}
	if probe.logger != nil {
		p.logger = probe.logger.Named("worker-pool")
	} else {
		p.logger = logger.Get().Named("worker-pool")
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns how many strokes the pool has recorded.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Active returns how many workers are busy.
func (p *Pool) Active() int64 { return p.active.Load() }

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
		}
	}
	return nil
}
