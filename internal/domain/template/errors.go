package template

import "errors"

// Sentinel kinds for template errors.
var (
	ErrNoDefinitions     = errors.New("no shape definitions")
	ErrDuplicateName     = errors.New("duplicate shape name")
	ErrInvalidDefinition = errors.New("invalid shape definition")
	ErrNotFound          = errors.New("template not found")
)
