// Package domainerrors carries error codes across layer boundaries.
//
// Services return *Error values; transport layers translate the code into a
// status (HTTP) and clients translate statuses back into the same code. Store
// layers should return sentinel errors instead and let services translate.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure that callers can branch on.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation_error"
	CodeInvariantViolation Code = "invariant_violation"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeTooManyRequests    Code = "too_many_requests"
	CodeInternal           Code = "internal_error"

	// Account and storage taxonomy surfaced to the presentation layer.
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeAccountExists      Code = "account_exists"
	CodeServiceUnavailable Code = "service_unavailable"
	CodeStorageUnavailable Code = "storage_unavailable"
)

// Error is a coded domain error. Message is safe to show to users unless the
// code is CodeInternal.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error without a cause.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying cause.
// Wrapping a nil error returns nil.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether the outermost coded error in err's chain has the code.
func HasCode(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// CodeOf returns the outermost code in err's chain.
func CodeOf(err error) (Code, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Code, true
	}
	return "", false
}

// MessageOf returns the user-facing message of the outermost coded error, or
// err.Error() when err carries no code.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
