package domain

import "errors"

// ErrTicketNotFound is returned by stores when no record carries the requested id.
// The repository turns it into a default ticket on lookups; on updates it is
// surfaced to the caller.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrNotSupported is returned by stores that cannot perform the operation,
// such as writes against a read-only store.
var ErrNotSupported = errors.New("operation not supported")

// ErrInvalidPayload wraps request validation failures
var ErrInvalidPayload = errors.New("invalid payload")

// ErrSessionNotFound is returned for unknown or closed list sessions
var ErrSessionNotFound = errors.New("list session not found")
