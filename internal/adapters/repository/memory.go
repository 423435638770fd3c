package repository

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/geodraw/internal/domain/model"
	"github.com/okian/geodraw/pkg/metrics"
)

// MemoryStore keeps sessions in maps partitioned by a hash of the session
// id, each behind its own lock.
type MemoryStore struct {
	shardCount int
	shards     []*shard
	count      atomic.Int64
}

type shard struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{shardCount: DefaultShardCount}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{sessions: make(map[string]*model.Session)}
	}
	metrics.UpdateRepositoryShardCount(s.shardCount)
	return s
}

func (s *MemoryStore) shardIndex(id string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % uint32(len(s.shards)))
}

func (s *MemoryStore) shardFor(id string) *shard {
	return s.shards[s.shardIndex(id)]
}

func (s *MemoryStore) Create(_ context.Context, id string, now time.Time) error {
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(sinceMs(start)) }()

	idx := s.shardIndex(id)
	sh := s.shards[idx]
	sh.mu.Lock()
	if _, ok := sh.sessions[id]; ok {
		sh.mu.Unlock()
		metrics.RecordErrorByComponent("repository", "exists")
		return ErrExists
	}
	sh.sessions[id] = &model.Session{ID: id, CreatedAt: now, UpdatedAt: now}
	size := len(sh.sessions)
	sh.mu.Unlock()

	metrics.UpdateRepositoryRecordsPerShard(strconv.Itoa(idx), size)
	metrics.UpdateSessionsTotal(int(s.count.Add(1)))
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (model.Session, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(sinceMs(start)) }()

	sh := s.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	sess, ok := sh.sessions[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Session{}, ErrNotFound
	}
	out := *sess
	out.Discoveries = append([]model.Discovery(nil), sess.Discoveries...)
	return out, nil
}

func (s *MemoryStore) RecordAttempt(_ context.Context, id string, now time.Time) error {
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(sinceMs(start)) }()

	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sess, ok := sh.sessions[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return ErrNotFound
	}
	sess.Attempt(now)
	return nil
}

func (s *MemoryStore) Discover(_ context.Context, id string, d model.Discovery) (bool, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(sinceMs(start)) }()

	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sess, ok := sh.sessions[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return false, ErrNotFound
	}
	return sess.Award(d), nil
}

func (s *MemoryStore) TopN(_ context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(sinceMs(start)) }()

	if n <= 0 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	all := make([]Entry, 0, s.count.Load())
	for _, sh := range s.shards {
		sh.mu.RLock()
		for id, sess := range sh.sessions {
			all = append(all, Entry{SessionID: id, Score: sess.Score, Found: len(sess.Discoveries)})
		}
		sh.mu.RUnlock()
	}
	sortEntries(all)
	assignRanksWithTies(all)
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (s *MemoryStore) Count(_ context.Context) int {
	return int(s.count.Load())
}

// Close is a no-op; the store holds no external resources.
func (s *MemoryStore) Close() error { return nil }
