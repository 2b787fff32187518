package errors

import "errors"

var (
	ErrNotFound = errors.New("member not found")

	ErrInvalidID = errors.New("invalid member ID format")

	ErrEmailTaken = errors.New("email already registered as a member")

	ErrMembershipIDTaken = errors.New("membership ID already assigned")

	ErrPendingNotFound = errors.New("pending registration not found or expired")

	ErrInvalidStagingToken = errors.New("invalid staging token")
)
