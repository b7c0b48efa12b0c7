package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this username already exists.
	// Raised by the storage unique constraint, not by a prior existence check
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrDateNotFound indicates that date record was not found
	ErrDateNotFound = errors.New("date record not found")

	// ErrTokenNotFound indicates that refresh token was not found
	ErrTokenNotFound = errors.New("refresh token not found")
)
