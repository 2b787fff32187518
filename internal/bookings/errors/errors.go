package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrInvalidDateRange = errors.New("check-out must be after check-in")

	// ErrStatusChanged means a conditional status update matched no document
	// because the booking left the expected state concurrently.
	ErrStatusChanged = errors.New("booking status changed concurrently")
)
