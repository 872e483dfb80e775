package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrUnexpectedStatus is returned when a listing is not in the status a write expects.
	ErrUnexpectedStatus = errors.New("cargo listing is not in the expected status")

	// ErrDuplicateMatch is returned when the pair has already been accepted.
	ErrDuplicateMatch = errors.New("match already exists for these listings")
)
