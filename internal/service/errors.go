// Package service holds the provisioning and session logic: multi-table
// signup, credential verification and session token issuing.
package service

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials covers every login failure mode — unknown email,
// wrong role, wrong password — so responses never reveal which part failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAccessCode is returned when an admin signup presents the wrong
// provisioning access code.
var ErrAccessCode = errors.New("invalid access code")

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

func missing(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "required"}
}
