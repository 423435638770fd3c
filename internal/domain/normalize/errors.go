package normalize

import "errors"

// Sentinel kinds for normalization errors.
var (
	ErrEmptyPath      = errors.New("empty path")
	ErrDegeneratePath = errors.New("degenerate path")
)
