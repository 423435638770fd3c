package recognizer

import (
	"errors"

	"github.com/okian/geodraw/internal/domain/normalize"
)

// Sentinel kinds for recognition outcomes that are not matches.
var (
	ErrNoTemplates       = errors.New("no templates")
	ErrInsufficientInput = errors.New("insufficient input")
	// ErrDegeneratePath aliases the normalizer's kind so callers need only
	// this package.
	ErrDegeneratePath = normalize.ErrDegeneratePath
)
