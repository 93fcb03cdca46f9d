package game

import "errors"

// Domain errors. The request layer maps these to HTTP statuses with
// errors.Is, so every failure returned by this package wraps one of them.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("invalid state for action")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrRoleActionMismatch = errors.New("action not permitted for role")
)
