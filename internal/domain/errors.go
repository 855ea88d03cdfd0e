// Package domain holds the recipe-sharing entities, their validation rules
// and the failures they can produce. Errors here describe what went wrong
// in business terms; the HTTP layer picks the status code.
package domain

import (
	"errors"
	"fmt"
)

// Failure kinds. Every typed error below unwraps to exactly one of them,
// so callers match with errors.Is or the Is helpers.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrForbidden       = errors.New("forbidden")
	ErrUnavailable     = errors.New("unavailable")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// NotFoundError names the missing entity, e.g. recipe 7.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}

	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (*NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError reports that entity id does not exist. id may be empty.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError is a write that collides with stored state, such as a taken
// email or a tag slug in use.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string { return e.Entity + " " + e.Reason }

func (*ConflictError) Unwrap() error { return ErrConflict }

// NewConflictError reads as "<entity> <reason>", e.g. "tag already exists".
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// ValidationError is a rejected input. Field is the request field at fault
// and becomes the key of the response details; Message is shown to clients
// verbatim.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (*ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError rejects field with a client-facing message.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue also records the offending value for logs.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// ForbiddenError is an authenticated caller acting outside their rights.
type ForbiddenError struct {
	Action string
	Reason string
}

func (e *ForbiddenError) Error() string {
	if e.Reason == "" {
		return "not allowed to " + e.Action
	}

	return e.Reason
}

func (*ForbiddenError) Unwrap() error { return ErrForbidden }

// NewForbiddenError denies action. reason, when set, is the client message.
func NewForbiddenError(action, reason string) error {
	return &ForbiddenError{Action: action, Reason: reason}
}

// UnavailableError is a dependency (database, image store) that could not
// serve the request.
type UnavailableError struct {
	Dependency string
	Reason     string
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return e.Dependency + " unavailable"
	}

	return fmt.Sprintf("%s unavailable: %s", e.Dependency, e.Reason)
}

func (*UnavailableError) Unwrap() error { return ErrUnavailable }

// NewUnavailableError reports dependency as down.
func NewUnavailableError(dependency, reason string) error {
	return &UnavailableError{Dependency: dependency, Reason: reason}
}

// UnauthenticatedError is a request without usable credentials. An empty
// Reason means none were sent.
type UnauthenticatedError struct {
	Reason string
}

func (e *UnauthenticatedError) Error() string {
	if e.Reason == "" {
		return "authentication credentials were not provided"
	}

	return e.Reason
}

func (*UnauthenticatedError) Unwrap() error { return ErrUnauthenticated }

// NewUnauthenticatedError rejects the caller's credentials for reason.
func NewUnauthenticatedError(reason string) error {
	return &UnauthenticatedError{Reason: reason}
}

// IsNotFound and its siblings match a failure kind anywhere in the chain.
func IsNotFound(err error) bool        { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool        { return errors.Is(err, ErrConflict) }
func IsValidation(err error) bool      { return errors.Is(err, ErrValidation) }
func IsForbidden(err error) bool       { return errors.Is(err, ErrForbidden) }
func IsUnavailable(err error) bool     { return errors.Is(err, ErrUnavailable) }
func IsUnauthenticated(err error) bool { return errors.Is(err, ErrUnauthenticated) }
