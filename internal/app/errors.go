package app

import "errors"

// Sentinel kinds for service-level validation errors.
var (
	ErrSameElement     = errors.New("winner and loser must differ")
	ErrEmptyLabel      = errors.New("element label must not be empty")
	ErrInvalidCategory = errors.New("unknown category")
	ErrEmptyText       = errors.New("submission text must not be empty")
	ErrInvalidSegment  = errors.New("unknown leaderboard segment")
	ErrNotStarted      = errors.New("service not started")
)
