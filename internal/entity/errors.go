package entity

import "errors"

var (
	// ErrNotFound is returned when a notification group no longer exists,
	// e.g. it was removed by a concurrent request.
	ErrNotFound = errors.New("notification not found")

	// ErrMissingForUser rejects persisting a notification without a recipient.
	ErrMissingForUser = errors.New("notification requires a recipient user id")

	// ErrUnknownType rejects a notification type outside the closed registry.
	ErrUnknownType = errors.New("unknown notification type")
)
