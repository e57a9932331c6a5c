package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when a unique constraint rejects an insert.
// It deliberately does not say which column collided.
var ErrAlreadyExists = errors.New("already exists")
