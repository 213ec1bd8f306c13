// Package errors defines the coded errors returned by the stores and the
// credential service. Handlers map the code to an HTTP status and the
// message to the response body.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	Is = errors.Is
	As = errors.As
)

// Code is a machine-readable error category.
type Code string

const (
	CodeValidation         Code = "VALIDATION"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeInvalidToken       Code = "INVALID_TOKEN"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeNotFound           Code = "NOT_FOUND"
	CodeRateLimited        Code = "RATE_LIMITED"
	CodeInternal           Code = "INTERNAL"
)

// HTTPStatus returns the response status for the code. Duplicate accounts
// are reported as 400, which is what existing clients expect.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeAlreadyExists:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidToken, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a code, a client-safe message and optional field details.
type Error struct {
	Code    Code
	Message string
	Details map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same code, so callers can compare against
// the sentinels below.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

var (
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrAlreadyExists      = &Error{Code: CodeAlreadyExists, Message: "already exists"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrInvalidToken       = &Error{Code: CodeInvalidToken, Message: "Invalid token"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid credentials"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrRateLimited        = &Error{Code: CodeRateLimited, Message: "Too many requests"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "Internal server error"}
)

func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails attaches per-field messages keyed by JSON field name.
func ValidationWithDetails(msg string, details map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

func AlreadyExists(msg string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// InvalidToken wraps the verification failure; the message stays generic.
func InvalidToken(cause error) *Error {
	return &Error{Code: CodeInvalidToken, Message: "Invalid token", cause: cause}
}

func InvalidCredentials(msg string) *Error {
	return &Error{Code: CodeInvalidCredentials, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "Internal server error", cause: cause}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Domain errors with fixed client messages.
var (
	ErrNoValidFields   = Validation("No valid fields to update")
	ErrInvalidTaskType = Validation("Invalid task type")
	ErrTaskNotFound    = NotFound("Task not found")
	ErrTagNotFound     = NotFound("Tag not found")
)

// StatusAndMessage resolves any error into the response status and body
// message. Errors without a code are internal and never leak their text.
func StatusAndMessage(err error) (int, string, map[string]string) {
	var e *Error
	if errors.As(err, &e) {
		if e.Code == CodeInternal || e.Code.HTTPStatus() == http.StatusInternalServerError {
			return http.StatusInternalServerError, ErrInternal.Message, nil
		}
		return e.HTTPStatus(), e.Message, e.Details
	}
	return http.StatusInternalServerError, ErrInternal.Message, nil
}
