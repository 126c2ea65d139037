// Package errors provides typed errors for the application
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeConflict
	ErrorTypeUnauthorized
	ErrorTypePermission
	ErrorTypeInternal
	ErrorTypeRateLimit
)

// baseError is the base implementation for all error types
type baseError struct {
	msg string
}

func (e *baseError) Error() string {
	return e.msg
}

// ValidationError represents a validation error (400)
type ValidationError struct {
	baseError
}

// NewValidationError creates a new ValidationError
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{baseError{msg: msg}}
}

// NotFoundError represents a not found error (404)
type NotFoundError struct {
	baseError
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{baseError{msg: msg}}
}

// ConflictError represents a conflict error (409)
type ConflictError struct {
	baseError
}

// NewConflictError creates a new ConflictError
func NewConflictError(msg string) *ConflictError {
	return &ConflictError{baseError{msg: msg}}
}

// UnauthorizedError represents an unauthorized error (401)
type UnauthorizedError struct {
	baseError
}

// NewUnauthorizedError creates a new UnauthorizedError
func NewUnauthorizedError(msg string) *UnauthorizedError {
	return &UnauthorizedError{baseError{msg: msg}}
}

// PermissionError represents a permission error (403)
type PermissionError struct {
	baseError
}

// NewPermissionError creates a new PermissionError
func NewPermissionError(msg string) *PermissionError {
	return &PermissionError{baseError{msg: msg}}
}

// InternalError represents an internal server error (500)
type InternalError struct {
	baseError
}

// NewInternalError creates a new InternalError
func NewInternalError(msg string) *InternalError {
	return &InternalError{baseError{msg: msg}}
}

// RateLimitError is returned by the transport when it asks the caller to slow down.
// RetryAfter is the wait the server requested.
type RateLimitError struct {
	baseError
	RetryAfter time.Duration
}

// NewRateLimitError creates a new RateLimitError
func NewRateLimitError(retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{
		baseError:  baseError{msg: fmt.Sprintf("rate limited, retry after %s", retryAfter)},
		RetryAfter: retryAfter,
	}
}

// IsValidationError checks if error is a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}

// IsNotFoundError checks if error is a NotFoundError
func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return stderrors.As(err, &target)
}

// IsConflictError checks if error is a ConflictError
func IsConflictError(err error) bool {
	var target *ConflictError
	return stderrors.As(err, &target)
}

// IsUnauthorizedError checks if error is an UnauthorizedError
func IsUnauthorizedError(err error) bool {
	var target *UnauthorizedError
	return stderrors.As(err, &target)
}

// IsPermissionError checks if error is a PermissionError
func IsPermissionError(err error) bool {
	var target *PermissionError
	return stderrors.As(err, &target)
}

// IsInternalError checks if error is an InternalError
func IsInternalError(err error) bool {
	var target *InternalError
	return stderrors.As(err, &target)
}

// IsRateLimitError checks if error is a RateLimitError
func IsRateLimitError(err error) bool {
	_, ok := RetryAfter(err)
	return ok
}

// RetryAfter extracts the requested wait from a RateLimitError anywhere in the chain
func RetryAfter(err error) (time.Duration, bool) {
	var target *RateLimitError
	if !stderrors.As(err, &target) {
		return 0, false
	}
	return target.RetryAfter, true
}

// Type reports the ErrorType of err, ErrorTypeInternal for untyped errors
func Type(err error) ErrorType {
	switch {
	case IsValidationError(err):
		return ErrorTypeValidation
	case IsNotFoundError(err):
		return ErrorTypeNotFound
	case IsConflictError(err):
		return ErrorTypeConflict
	case IsUnauthorizedError(err):
		return ErrorTypeUnauthorized
	case IsPermissionError(err):
		return ErrorTypePermission
	case IsRateLimitError(err):
		return ErrorTypeRateLimit
	default:
		return ErrorTypeInternal
	}
}
