package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// StatusCoder is implemented by every error that maps to a specific http status
type StatusCoder interface {
	StatusCode() int
}

// ValidationError is bad, missing or out-of-range input.
type ValidationError struct {
	Field   string
	Message string
	Err     error // optional sentinel such as ErrMissingField
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("Validation error: %s", e.Message)
	}
	return fmt.Sprintf("Validation error: field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// NotFoundError is returned for unknown boards, posts and accounts.
type NotFoundError struct {
	What string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id /%s/ cannot be found", e.What, e.ID)
}

func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// AuthError means bad credentials or a missing session.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) StatusCode() int { return http.StatusUnauthorized }

// InternalError wraps unexpected failures of primitives such as password hashing.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

func (e *InternalError) StatusCode() int { return http.StatusInternalServerError }

var (
	ErrMissingField    = errors.New("missing field")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrEmptyCollection = errors.New("empty collection")
	ErrNotLoggedIn     = &AuthError{Message: "Not logged in"}
)

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// RuleViolation builds a ValidationError that unwraps to sentinel.
func RuleViolation(field string, sentinel error, detail string) *ValidationError {
	msg := sentinel.Error()
	if detail != "" {
		msg += ": " + detail
	}
	return &ValidationError{Field: field, Message: msg, Err: sentinel}
}

// Check if err is instance of T for custom error types
func Is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	if Is[*NotFoundError](err) {
		return true
	}
	var e *ErrorWithStatusCode
	return errors.As(err, &e) && e.StatusCode == http.StatusNotFound
}

// StatusCode resolves the http status for err, 500 when nothing more specific is known.
func StatusCode(err error) int {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.StatusCode
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}
