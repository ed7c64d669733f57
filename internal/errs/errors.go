// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package errs defines the error taxonomy shared by services and HTTP
// handlers. Services raise typed errors at the point of validation or
// authorization; handlers translate the type into a status code and keep
// everything else a generic 500.
package errs

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "validation"
	ErrorTypeUnauthenticated ErrorType = "unauthenticated"
	ErrorTypeForbidden       ErrorType = "forbidden"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeConflict        ErrorType = "conflict"
	ErrorTypeQuotaExceeded   ErrorType = "quota_exceeded"
	ErrorTypeInternal        ErrorType = "internal"
)

// DomainError carries the error category alongside the user visible message.
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && (t.Message == "" || t.Message == e.Message)
}

func New(errType ErrorType, message string) *DomainError {
	return &DomainError{Type: errType, Message: message}
}

func Wrap(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{Type: errType, Message: message, Err: err}
}

var (
	ErrInvalidCredentials = New(ErrorTypeUnauthenticated, "Invalid credentials")
	ErrUnauthenticated    = New(ErrorTypeUnauthenticated, "Invalid token")
	ErrForbidden          = New(ErrorTypeForbidden, "Insufficient permissions")
	ErrAccessDenied       = New(ErrorTypeForbidden, "Access denied")
	ErrNoteNotFound       = New(ErrorTypeNotFound, "Note not found")
	ErrTenantNotFound     = New(ErrorTypeNotFound, "Tenant not found")
	ErrUserExists         = New(ErrorTypeConflict, "User already exists")
	ErrNoteLimitReached   = New(ErrorTypeQuotaExceeded, "Note limit reached. Please upgrade to Pro plan.")
	ErrInternal           = New(ErrorTypeInternal, "Internal server error")
)

// TypeOf returns the category of err, defaulting to internal for errors that
// are not part of the taxonomy.
func TypeOf(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ErrorTypeInternal
}

// Message returns the user visible message for err. Untyped errors map to the
// generic internal message so handler boundaries never leak detail.
func Message(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return ErrInternal.Message
}

func IsNotFound(err error) bool      { return TypeOf(err) == ErrorTypeNotFound }
func IsValidation(err error) bool    { return TypeOf(err) == ErrorTypeValidation }
func IsForbidden(err error) bool     { return TypeOf(err) == ErrorTypeForbidden }
func IsConflict(err error) bool      { return TypeOf(err) == ErrorTypeConflict }
func IsQuotaExceeded(err error) bool { return TypeOf(err) == ErrorTypeQuotaExceeded }
