package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("element not found")
	ErrAlreadyExists = errors.New("element already exists")
	ErrInactive      = errors.New("element is inactive")
)
