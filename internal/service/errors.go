package service

import "errors"

var (
	// ErrNotFound covers both a missing row and a row owned by another
	// user. The two cases are deliberately indistinguishable so a user
	// cannot probe for other people's reminder ids.
	ErrNotFound = errors.New("reminder not found")

	// ErrUnavailable replaces raw connectivity and constraint errors at
	// the store boundary. Callers tell the user to retry; the detail is
	// already logged.
	ErrUnavailable = errors.New("storage unavailable")
)

// ValidationError marks user input rejected before it reaches the store
// or the scheduler.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

var (
	ErrEmptyText         = &ValidationError{"reminder text cannot be empty"}
	ErrMinutesOutOfRange = &ValidationError{"minutes must be between 1 and 1440"}
)

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
