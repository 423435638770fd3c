package repository

import (
	"errors"

	"github.com/okian/geodraw/internal/domain/model"
)

// Sentinel kinds for session store errors.
var (
	ErrNotFound     = model.ErrSessionNotFound
	ErrExists       = errors.New("session already exists")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
