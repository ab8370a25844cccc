package duel

import "errors"

// Sentinel error kinds for this package. Callers match with errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid algorithm config")
)
