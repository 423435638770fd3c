package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/geodraw/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// storeFactories builds every Store implementation for the shared tests.
func storeFactories(t *testing.T) map[string]func() Store {
	return map[string]func() Store{
		"memory": func() Store { return NewMemoryStore(WithShardCount(4)) },
		"sqlite": func() Store {
			s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "sessions.db"))
			if err != nil {
				t.Fatalf("open sqlite store: %v", err)
			}
			return s
		},
	}
}

func discovery(shape string, at time.Time) model.Discovery {
	return model.Discovery{Shape: shape, Score: 0.9, Points: 50, DiscoveredAt: at}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, factory := range storeFactories(t) {
		Convey(fmt.Sprintf("Given an empty %s store", name), t, func() {
			s := factory()
			defer s.Close()

			So(s.Count(ctx), ShouldEqual, 0)

			Convey("When a session is created", func() {
				So(s.Create(ctx, "s-1", now), ShouldBeNil)

				Convey("Then it can be read back", func() {
					sess, err := s.Get(ctx, "s-1")
					So(err, ShouldBeNil)
					So(sess.ID, ShouldEqual, "s-1")
					So(sess.Score, ShouldEqual, 0)
					So(sess.CreatedAt.Equal(now), ShouldBeTrue)
					So(s.Count(ctx), ShouldEqual, 1)
				})

				Convey("Then creating it again fails", func() {
					So(errors.Is(s.Create(ctx, "s-1", now), ErrExists), ShouldBeTrue)
				})

				Convey("Then attempts are counted", func() {
					So(s.RecordAttempt(ctx, "s-1", now.Add(time.Second)), ShouldBeNil)
					So(s.RecordAttempt(ctx, "s-1", now.Add(2*time.Second)), ShouldBeNil)
					sess, err := s.Get(ctx, "s-1")
					So(err, ShouldBeNil)
					So(sess.Attempts, ShouldEqual, 2)
					So(sess.UpdatedAt.Equal(now.Add(2*time.Second)), ShouldBeTrue)
				})

				Convey("Then a shape is rewarded only once", func() {
					first, err := s.Discover(ctx, "s-1", discovery("circle", now))
					So(err, ShouldBeNil)
					So(first, ShouldBeTrue)

					again, err := s.Discover(ctx, "s-1", discovery("circle", now.Add(time.Minute)))
					So(err, ShouldBeNil)
					So(again, ShouldBeFalse)

					other, err := s.Discover(ctx, "s-1", discovery("triangle", now.Add(time.Minute)))
					So(err, ShouldBeNil)
					So(other, ShouldBeTrue)

					sess, err := s.Get(ctx, "s-1")
					So(err, ShouldBeNil)
					So(sess.Score, ShouldEqual, 100)
					So(sess.CorrectAnswers, ShouldEqual, 2)
					So(len(sess.Discoveries), ShouldEqual, 2)
					So(sess.Discoveries[0].Shape, ShouldEqual, "circle")
					So(sess.Discoveries[1].Shape, ShouldEqual, "triangle")
				})
			})

			Convey("When the session does not exist", func() {
				_, err := s.Get(ctx, "missing")
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				So(errors.Is(s.RecordAttempt(ctx, "missing", now), ErrNotFound), ShouldBeTrue)
				_, err = s.Discover(ctx, "missing", discovery("circle", now))
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})

			Convey("When several sessions compete", func() {
				for _, id := range []string{"a", "b", "c", "d"} {
					So(s.Create(ctx, id, now), ShouldBeNil)
				}
				_, _ = s.Discover(ctx, "b", discovery("circle", now))
				_, _ = s.Discover(ctx, "b", discovery("triangle", now))
				_, _ = s.Discover(ctx, "c", discovery("circle", now))
				_, _ = s.Discover(ctx, "d", discovery("rectangle", now))

				Convey("Then the leaderboard is ordered by score with tied ranks", func() {
					entries, err := s.TopN(ctx, 10)
					So(err, ShouldBeNil)
					So(len(entries), ShouldEqual, 4)

					So(entries[0].SessionID, ShouldEqual, "b")
					So(entries[0].Rank, ShouldEqual, 1)
					So(entries[0].Score, ShouldEqual, 100)
					So(entries[0].Found, ShouldEqual, 2)

					So(entries[1].SessionID, ShouldEqual, "c")
					So(entries[2].SessionID, ShouldEqual, "d")
					So(entries[1].Rank, ShouldEqual, 2)
					So(entries[2].Rank, ShouldEqual, 2)

					So(entries[3].SessionID, ShouldEqual, "a")
					So(entries[3].Rank, ShouldEqual, 3)
				})

				Convey("Then the limit is honoured", func() {
					entries, err := s.TopN(ctx, 2)
					So(err, ShouldBeNil)
					So(len(entries), ShouldEqual, 2)
				})

				Convey("Then a non-positive limit is rejected", func() {
					_, err := s.TopN(ctx, 0)
					So(errors.Is(err, ErrInvalidLimit), ShouldBeTrue)
				})
			})
		})
	}
}

func TestMemoryStore_ConcurrentDiscover(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()

	if err := s.Create(ctx, "race", now); err != nil {
		t.Fatalf("create: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	fresh := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.Discover(ctx, "race", discovery("circle", now))
			if err != nil {
				t.Errorf("discover: %v", err)
				return
			}
			if ok {
				mu.Lock()
				fresh++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if fresh != 1 {
		t.Errorf("expected exactly one new discovery, got %d", fresh)
	}
	sess, err := s.Get(ctx, "race")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess.Score != 50 {
		t.Errorf("expected score 50, got %d", sess.Score)
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()
	_ = s.Create(ctx, "s", now)
	_, _ = s.Discover(ctx, "s", discovery("circle", now))

	sess, _ := s.Get(ctx, "s")
	sess.Discoveries[0].Shape = "changed"
	sess.Score = 1000

	again, _ := s.Get(ctx, "s")
	if again.Discoveries[0].Shape != "circle" || again.Score != 50 {
		t.Errorf("store state was mutated through a returned session: %+v", again)
	}
}

func TestMemoryStore_Sharding(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(WithShardCount(8))
	for i := 0; i < 200; i++ {
		if err := s.Create(ctx, fmt.Sprintf("session-%d", i), time.Now()); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if got := s.Count(ctx); got != 200 {
		t.Errorf("expected 200 sessions, got %d", got)
	}

	used := 0
	for _, sh := range s.shards {
		if len(sh.sessions) > 0 {
			used++
		}
	}
	if used < 2 {
		t.Errorf("expected sessions spread over shards, got %d used", used)
	}

	if s := NewMemoryStore(WithShardCount(0)); len(s.shards) != DefaultShardCount {
		t.Errorf("expected default shard count, got %d", len(s.shards))
	}
}

func TestSQLiteStore_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "persist.db")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s, err := NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Create(ctx, "keep", now); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Discover(ctx, "keep", discovery("rectangle", now)); err != nil {
		t.Fatalf("discover: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	sess, err := reopened.Get(ctx, "keep")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess.Score != 50 || len(sess.Discoveries) != 1 || sess.Discoveries[0].Shape != "rectangle" {
		t.Errorf("unexpected session after reopen: %+v", sess)
	}
	if !sess.Discoveries[0].DiscoveredAt.Equal(now) {
		t.Errorf("discovery time not preserved: %v", sess.Discoveries[0].DiscoveredAt)
	}
}
