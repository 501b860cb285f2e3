package domain

import "errors"

// Sentinel errors shared across layers - match with errors.Is().
//
// ErrNotFound covers both a missing resource and a resource owned by another
// user; the two cases are deliberately indistinguishable to callers so that
// resource IDs cannot be probed across accounts.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrStorage      = errors.New("storage operation failed")
)
