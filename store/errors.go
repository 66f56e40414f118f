// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import "errors"

// Sentinel errors. Operations wrap these with context; match with errors.Is.
var (
	// ErrValidation is returned for a malformed poll configuration or vote shape.
	ErrValidation = errors.New("validation failed")

	// ErrCapacity is returned when the poll or voter ceiling has been reached.
	ErrCapacity = errors.New("capacity reached")

	// ErrCollision is returned when a freshly generated poll ID is already taken.
	ErrCollision = errors.New("poll ID collision")

	// ErrNotFound is returned for an unknown poll ID.
	ErrNotFound = errors.New("poll not found")

	// ErrVersion is returned when a persisted version field does not match.
	ErrVersion = errors.New("version mismatch")

	// ErrIO is returned when reading or writing the database file fails.
	ErrIO = errors.New("storage failure")

	// ErrDecode is returned when the database file cannot be decoded.
	ErrDecode = errors.New("decode failure")
)
