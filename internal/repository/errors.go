package repository

import "errors"

var (
	// ErrNotFound is returned when no record matches the given identity.
	ErrNotFound = errors.New("record not found")
	// ErrStatusConflict is returned when a conditioned status write matched
	// zero rows: the record's status changed since the caller observed it.
	ErrStatusConflict = errors.New("status changed since read")
)
