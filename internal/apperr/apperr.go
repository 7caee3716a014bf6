// Package apperr defines the typed errors the domain layer returns.
// Handlers translate them to HTTP responses via the Status they carry.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidInput        = "invalid_input"
	CodeNotFound            = "not_found"
	CodeReferentialMismatch = "referential_mismatch"
	CodeForbidden           = "forbidden"
	CodeAlreadyAccepted     = "already_accepted"
	CodeConflict            = "conflict"
	CodeInternal            = "internal"
)

type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func InvalidInput(message string) *Error {
	return newError(http.StatusBadRequest, CodeInvalidInput, message)
}

func NotFound(message string) *Error {
	return newError(http.StatusNotFound, CodeNotFound, message)
}

func ReferentialMismatch(message string) *Error {
	return newError(http.StatusNotFound, CodeReferentialMismatch, message)
}

func Forbidden(message string) *Error {
	return newError(http.StatusForbidden, CodeForbidden, message)
}

func AlreadyAccepted(message string) *Error {
	return newError(http.StatusConflict, CodeAlreadyAccepted, message)
}

func Conflict(message string) *Error {
	return newError(http.StatusConflict, CodeConflict, message)
}

func Internal(message string) *Error {
	return newError(http.StatusInternalServerError, CodeInternal, message)
}

// Is reports whether err is a domain error with the given code.
func Is(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// Status returns the HTTP status for err, defaulting to 500.
func Status(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}
