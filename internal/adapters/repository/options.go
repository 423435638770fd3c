package repository

// DefaultShardCount is the number of shards of a MemoryStore.
const DefaultShardCount = 16

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithShardCount sets the number of independently locked shards.
func WithShardCount(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.shardCount = n
		}
	}
}
