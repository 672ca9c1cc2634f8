package store

import "errors"

// Sentinel errors returned by entity operations. Services translate
// these into domain errors with user-facing messages.
var (
	// ErrNotFound is returned when no entity exists under the requested key.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a create or update would violate
	// a primary key or unique index constraint.
	ErrAlreadyExists = errors.New("already exists")
)
