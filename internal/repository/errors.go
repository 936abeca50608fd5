package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a write violates an email unique index.
	ErrDuplicateEmail = errors.New("email already registered")
)
