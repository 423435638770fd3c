// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and GEODRAW_* environment variables on top.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"math"
	"runtime"
)

// Session store kinds.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory stroke queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of recognition workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many stroke ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the in-memory session store.
	ShardCount int `koanf:"shard_count"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// Store selects the session store: memory or sqlite.
	Store string `koanf:"store"`

	// SQLitePath is the database file used when Store is sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// TemplatesPath optionally names a JSON file of extra shape definitions.
	TemplatesPath string `koanf:"templates_path"`

	// Recognizer tuning.
	ResamplePoints int     `koanf:"resample_points"`
	ReferenceSize  float64 `koanf:"reference_size"`
	AngleRange     float64 `koanf:"angle_range"`
	AnglePrecision float64 `koanf:"angle_precision"`
	MinPoints      int     `koanf:"min_points"`

	// AcceptThreshold is the lowest score counted as a recognition.
	AcceptThreshold float64 `koanf:"accept_threshold"`

	// PointsPerDiscovery is the reward for finding a shape the first time.
	PointsPerDiscovery int `koanf:"points_per_discovery"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		QueueSize:           10_000,
		WorkerCount:         runtime.NumCPU(),
		DedupeSize:          50_000,
		ShardCount:          16,
		MaxLeaderboardLimit: 100,
		Store:               StoreMemory,
		SQLitePath:          "geodraw.db",
		ResamplePoints:      64,
		ReferenceSize:       250,
		AngleRange:          math.Pi / 2,
		AnglePrecision:      0.02,
		MinPoints:           10,
		AcceptThreshold:     0.82,
		PointsPerDiscovery:  50,
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ResamplePoints < 2:
		return fmt.Errorf("%w: resample_points must be at least 2, got %d", ErrInvalidConfig, c.ResamplePoints)
	case c.ReferenceSize <= 0:
		return fmt.Errorf("%w: reference_size must be positive", ErrInvalidConfig)
	case c.AngleRange <= 0:
		return fmt.Errorf("%w: angle_range must be positive", ErrInvalidConfig)
	case c.AnglePrecision <= 0:
		return fmt.Errorf("%w: angle_precision must be positive", ErrInvalidConfig)
	case c.AcceptThreshold > 1:
		return fmt.Errorf("%w: accept_threshold %.2f can never be reached", ErrInvalidConfig, c.AcceptThreshold)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	}

	switch c.Store {
	case StoreMemory:
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite store needs sqlite_path", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	return nil
}
