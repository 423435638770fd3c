package service

import (
	"time"

	"github.com/okian/geodraw/pkg/logger"
)

// Session store kinds.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkerCount sets the number of recognition workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued strokes.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many stroke ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the number of shards of the in-memory session store.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithStore selects the session store kind. path is used by StoreSQLite.
func WithStore(kind, path string) Option {
	return func(s *Service) {
		if kind != "" {
			s.storeKind = kind
			s.sqlitePath = path
		}
	}
}

// WithTemplatesPath adds the shape definitions of a JSON file to the
// built-in shapes.
func WithTemplatesPath(path string) Option {
	return func(s *Service) {
		s.templatesPath = path
	}
}

// WithResamplePoints sets the number of points paths are resampled to.
func WithResamplePoints(n int) Option {
	return func(s *Service) {
		if n >= 2 {
			s.resamplePoints = n
		}
	}
}

// WithReferenceSize sets the side of the square paths are scaled into.
func WithReferenceSize(size float64) Option {
	return func(s *Service) {
		if size > 0 {
			s.referenceSize = size
		}
	}
}

// WithAngleSearch sets the rotation window (±angleRange) and precision of
// the alignment search, in radians.
func WithAngleSearch(angleRange, precision float64) Option {
	return func(s *Service) {
		if angleRange > 0 && precision > 0 {
			s.angleRange = angleRange
			s.anglePrecision = precision
		}
	}
}

// WithMinPoints sets the fewest raw points a stroke needs.
func WithMinPoints(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minPoints = n
		}
	}
}

// WithAcceptThreshold sets the lowest accepted score.
func WithAcceptThreshold(t float64) Option {
	return func(s *Service) {
		s.threshold = t
	}
}

// WithPointsPerDiscovery sets the reward for a first discovery.
func WithPointsPerDiscovery(points int) Option {
	return func(s *Service) {
		if points >= 0 {
			s.pointsPerDiscovery = points
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
