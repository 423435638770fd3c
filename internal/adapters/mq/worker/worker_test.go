package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	worker "github.com/okian/geodraw/internal/adapters/mq/worker"
	"github.com/okian/geodraw/internal/domain/game"
	model "github.com/okian/geodraw/internal/domain/model"
	logging "github.com/okian/geodraw/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	strokes chan model.Stroke
	once    sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{strokes: make(chan model.Stroke, 10)}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan model.Stroke {
	return mq.strokes
}

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.strokes) })
	return nil
}

func (mq *mockQueue) add(s model.Stroke) { //nolint:gocritic // hugeParam: strokes travel by value
	mq.strokes <- s
}

// mockRecognizer returns a fixed verdict per session.
type mockRecognizer struct {
	mu       sync.RWMutex
	verdicts map[string]game.Verdict
}

func newMockRecognizer() *mockRecognizer {
	return &mockRecognizer{verdicts: make(map[string]game.Verdict)}
}

func (m *mockRecognizer) Judge(ctx context.Context, s model.Stroke) game.Verdict {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.verdicts[s.SessionID]; ok {
		return v
	}
	return game.Verdict{Reason: game.ReasonLowScore}
}

func (m *mockRecognizer) set(sessionID string, v game.Verdict) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verdicts[sessionID] = v
}

type mockRecorder struct {
	mu       sync.Mutex
	recorded map[string]game.Verdict
	errors   map[string]error
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{
		recorded: make(map[string]game.Verdict),
		errors:   make(map[string]error),
	}
}

func (m *mockRecorder) Record(ctx context.Context, s model.Stroke, v game.Verdict) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.errors[s.SessionID]; ok {
		return err
	}
	m.recorded[s.StrokeID] = v
	return nil
}

func (m *mockRecorder) setError(sessionID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[sessionID] = err
}

func (m *mockRecorder) get(strokeID string) (game.Verdict, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.recorded[strokeID]
	return v, ok
}

func (m *mockRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recorded)
}

// eventually polls cond until it holds or a second passes.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a new InMemoryWorker", t, func() {
		_ = logging.Init()

		queue := newMockQueue()
		recognizer := newMockRecognizer()
		recorder := newMockRecorder()

		convey.Convey("When creating a worker with custom options", func() {
			w := worker.NewInMemoryWorker(queue, recognizer, recorder,
				worker.WithName("test-worker"),
				worker.WithLogger(logging.Get()),
			)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When running a worker", func() {
			w := worker.NewInMemoryWorker(queue, recognizer, recorder)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx)

			convey.Convey("And a stroke is judged", func() {
				recognizer.set("session-1", game.Verdict{Accepted: true, Shape: "circle", Score: 0.95})
				queue.add(model.Stroke{StrokeID: "stroke-1", SessionID: "session-1"})

				convey.Convey("Then the verdict is recorded", func() {
					convey.So(eventually(func() bool { _, ok := recorder.get("stroke-1"); return ok }), convey.ShouldBeTrue)
					v, _ := recorder.get("stroke-1")
					convey.So(v.Shape, convey.ShouldEqual, "circle")
					convey.So(v.Accepted, convey.ShouldBeTrue)
				})
			})

			convey.Convey("And recording fails", func() {
				recorder.setError("session-2", errors.New("store down"))
				queue.add(model.Stroke{StrokeID: "stroke-2", SessionID: "session-2"})
				queue.add(model.Stroke{StrokeID: "stroke-3", SessionID: "session-3"})

				convey.Convey("Then the worker keeps going", func() {
					convey.So(eventually(func() bool { _, ok := recorder.get("stroke-3"); return ok }), convey.ShouldBeTrue)
					_, ok := recorder.get("stroke-2")
					convey.So(ok, convey.ShouldBeFalse)
				})
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
				defer shutdownCancel()

				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the queue is closed", func() {
			w := worker.NewInMemoryWorker(queue, recognizer, recorder)
			finished := make(chan struct{})
			go func() {
				w.Run(context.Background())
				close(finished)
			}()
			_ = queue.Close()

			convey.Convey("Then the worker exits", func() {
				select {
				case <-finished:
				case <-time.After(time.Second):
				}
				convey.So(eventually(func() bool {
					select {
					case <-finished:
						return true
					default:
						return false
					}
				}), convey.ShouldBeTrue)
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a new worker pool", t, func() {
		_ = logging.Init()

		queue := newMockQueue()
		recognizer := newMockRecognizer()
		recorder := newMockRecorder()

		convey.Convey("When creating a pool with the default count", func() {
			pool := worker.NewPool(0, queue, recognizer, recorder)

			convey.Convey("Then it has at least one worker", func() {
				convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When processing strokes", func() {
			pool := worker.NewPool(3, queue, recognizer, recorder)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			pool.Start(ctx)

			for i := 0; i < 8; i++ {
				queue.add(model.Stroke{StrokeID: fmt.Sprintf("stroke-%d", i), SessionID: "session"})
			}

			convey.Convey("Then shutdown drains every queued stroke", func() {
				convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
				convey.So(recorder.count(), convey.ShouldEqual, 8)
				convey.So(pool.Processed(), convey.ShouldEqual, 8)
				convey.So(pool.Active(), convey.ShouldEqual, 0)
			})
		})
	})
}
