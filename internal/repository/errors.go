// Package repository implements the data access layer over MySQL. Sentinel
// errors defined here let the service and handler layers map store failures
// onto the right HTTP responses without inspecting driver errors.
package repository

import "errors"

// ErrEmailTaken is returned when an insert hits the unique index on
// accounts.email. The index is the arbiter for duplicate signups; the
// pre-insert lookup only exists to fail fast.
var ErrEmailTaken = errors.New("email already registered")

// ErrNotFound is returned when a row the caller asked for does not exist
// or is no longer active.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts to modify a resource
// owned by a different organizer. Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")
