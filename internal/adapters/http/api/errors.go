package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrInvalidJSON   = errors.New("invalid json body")
	ErrMissingField  = errors.New("missing required field")
	ErrUnknownMethod = errors.New("method not allowed")
)
