package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a domain error for transport-level mapping.
type ErrorCode string

const (
	CodeValidation        ErrorCode = "validation_error"
	CodeNotFound          ErrorCode = "not_found"
	CodeConflict          ErrorCode = "conflict"
	CodeForbidden         ErrorCode = "forbidden"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeUnavailable       ErrorCode = "upstream_unavailable"
	CodeMalformedResponse ErrorCode = "upstream_malformed_response"
	CodePlanningFailed    ErrorCode = "planning_failed"
	CodeInternal          ErrorCode = "internal_error"
)

// Error is the base type for all domain errors.
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// NewValidationError creates an error for caller-supplied data that fails a precondition.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// NewNotFoundError creates an error for a missing entity. This is a normal,
// expected outcome for lookup misses, not a system fault.
func NewNotFoundError(entity, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewConflictError creates an error for concurrent-modification conflicts.
func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// NewForbiddenError creates an error for authenticated callers lacking access.
func NewForbiddenError(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// NewUnauthorizedError creates an error for missing or invalid credentials.
func NewUnauthorizedError(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// NewUnavailableError creates an error for a remote transport or timeout
// failure against the named upstream service.
func NewUnavailableError(upstream string, cause error) *Error {
	return &Error{
		Code:    CodeUnavailable,
		Message: fmt.Sprintf("%s unavailable", upstream),
		cause:   cause,
	}
}

// NewMalformedResponseError creates an error for an upstream payload missing
// the fields this service depends on.
func NewMalformedResponseError(upstream, detail string) *Error {
	return &Error{
		Code:    CodeMalformedResponse,
		Message: fmt.Sprintf("%s returned malformed response: %s", upstream, detail),
	}
}

// NewPlanningFailedError wraps a fatal failure of the planning workflow.
// Recoverable failures (alternatives fetch, per-candidate scoring) are
// degraded locally and never surface through this constructor.
func NewPlanningFailedError(cause error) *Error {
	return &Error{Code: CodePlanningFailed, Message: "route planning failed", cause: cause}
}

// NewInternalError wraps an unexpected infrastructure failure.
func NewInternalError(message string, cause error) *Error {
	return &Error{Code: CodeInternal, Message: message, cause: cause}
}

// CodeOf returns the domain error code of err, or CodeInternal when err is
// not a domain error.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// IsNotFound reports whether err is a not-found domain error.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsValidation reports whether err is a validation domain error.
func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidation
}
