package entity

import (
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("missing or invalid field")
	ErrInvalidDate     = errors.New("invalid date")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrSessionExpired  = errors.New("session expired")
)

// StoreError carries the remote store's own message so it can be surfaced to
// the user verbatim. Fallback text is the caller's job when Message is empty.
type StoreError struct {
	StatusCode int
	Message    string
}

func (e *StoreError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "booking store request failed"
}
