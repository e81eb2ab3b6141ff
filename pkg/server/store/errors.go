package store

import "errors"

// ErrNotFound is returned when a record doesn't exist
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail is returned when an identity with the same email exists
var ErrDuplicateEmail = errors.New("email already registered")
