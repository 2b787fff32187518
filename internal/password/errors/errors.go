package errors

import "errors"

var (
	ErrTokenNotFound = errors.New("reset token not found or expired")

	ErrUnknownAccountKind = errors.New("unknown account kind")
)
