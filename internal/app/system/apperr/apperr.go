// internal/app/system/apperr/apperr.go

// Package apperr defines the discriminated error kinds shared by the
// store and feature layers. Stores return these; the HTTP layer maps
// them to status codes without inspecting error strings.
package apperr

import (
	"errors"
	"fmt"
)

// NotFound reports that a referenced document does not exist.
type NotFound struct {
	Resource string // "user", "group", "session", "paper", "membership"
	ID       string
}

func (e NotFound) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// InvalidArgument reports a missing or malformed input field, detected
// before any write is attempted.
type InvalidArgument struct {
	Field  string
	Reason string
}

func (e InvalidArgument) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AlreadyExists reports a duplicate of a uniquely-keyed document
// (currently only paper attachments surface this to callers).
type AlreadyExists struct {
	Resource string
	ID       string
}

func (e AlreadyExists) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Resource, e.ID)
}

// Conflict is reserved for constraint violations not covered by the
// kinds above.
type Conflict struct {
	Resource string
	Reason   string
}

func (e Conflict) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Resource, e.Reason)
}

// The predicates use errors.As so a kind survives %w wrapping on its
// way up through the stores.

// IsNotFound reports whether err is or wraps a NotFound.
func IsNotFound(err error) bool {
	var e NotFound
	return errors.As(err, &e)
}

// IsInvalidArgument reports whether err is or wraps an InvalidArgument.
func IsInvalidArgument(err error) bool {
	var e InvalidArgument
	return errors.As(err, &e)
}

// IsAlreadyExists reports whether err is or wraps an AlreadyExists.
func IsAlreadyExists(err error) bool {
	var e AlreadyExists
	return errors.As(err, &e)
}

// IsConflict reports whether err is or wraps a Conflict.
func IsConflict(err error) bool {
	var e Conflict
	return errors.As(err, &e)
}
