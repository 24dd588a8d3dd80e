package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Error codes shared by the workflow engine and the transport layer.
const (
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeForbidden           = "FORBIDDEN"
	CodeInsufficientRole    = "INSUFFICIENT_ROLE"
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodePreconditionFailed  = "PRECONDITION_FAILED"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeDuplicateActive     = "DUPLICATE_ACTIVE"
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnavailable         = "UNAVAILABLE"
	CodeInternal            = "INTERNAL_ERROR"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
)

// Predefined errors for common scenarios.
var (
	ErrUnauthenticated     = New(CodeUnauthenticated, http.StatusUnauthorized, "authentication required")
	ErrInvalidCredentials  = New(CodeInvalidCredentials, http.StatusUnauthorized, "invalid email or password")
	ErrForbidden           = New(CodeForbidden, http.StatusForbidden, "forbidden")
	ErrInsufficientRole    = New(CodeInsufficientRole, http.StatusForbidden, "insufficient role")
	ErrNotFound            = New(CodeNotFound, http.StatusNotFound, "resource not found")
	ErrInvalidTransition   = New(CodeInvalidTransition, http.StatusConflict, "invalid state transition")
	ErrPreconditionFailed  = New(CodePreconditionFailed, http.StatusPreconditionFailed, "precondition failed")
	ErrConstraintViolation = New(CodeConstraintViolation, http.StatusUnprocessableEntity, "constraint violation")
	ErrDuplicateActive     = New(CodeDuplicateActive, http.StatusConflict, "an active registration already exists for this email")
	ErrValidation          = New(CodeValidation, http.StatusBadRequest, "validation failed")
	ErrUnavailable         = New(CodeUnavailable, http.StatusServiceUnavailable, "storage unavailable")
	ErrInternal            = New(CodeInternal, http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Unavailable wraps a persistence failure.
func Unavailable(err error, message string) *Error {
	return Wrap(err, ErrUnavailable.Code, ErrUnavailable.Status, message)
}

// IsKind reports whether err carries the provided code anywhere in its chain.
func IsKind(err error, code string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// IsForbidden is true for both ownership and role failures.
func IsForbidden(err error) bool {
	return IsKind(err, CodeForbidden) || IsKind(err, CodeInsufficientRole)
}
