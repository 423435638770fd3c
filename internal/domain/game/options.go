package game

// Option configures a Judge.
type Option func(*Judge)

// WithThreshold sets the lowest accepted score. Scores never exceed 1, so a
// larger threshold would reject everything and is ignored.
func WithThreshold(t float64) Option {
	return func(j *Judge) {
		if t <= 1 {
			j.threshold = t
		}
	}
}

// WithPointsPerDiscovery sets the reward for a first discovery.
func WithPointsPerDiscovery(points int) Option {
	return func(j *Judge) {
		if points >= 0 {
			j.points = points
		}
	}
}
