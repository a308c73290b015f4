// Package errs defines the error taxonomy shared by the service layer and the
// HTTP handlers. Services return these types; handlers translate them to a
// status code in exactly one place.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

type AuthenticationError struct {
	Msg string
}

func (e *AuthenticationError) Error() string { return e.Msg }

type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// StoreError wraps an unexpected persistence failure. It is treated as fatal
// to the request and never shown to clients verbatim.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func Authentication(msg string) error {
	return &AuthenticationError{Msg: msg}
}

func Authorization(msg string) error {
	return &AuthorizationError{Msg: msg}
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func Conflict(msg string) error {
	return &ConflictError{Msg: msg}
}

func Store(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// HTTPStatus maps an error from the taxonomy to the status code the request
// boundary should answer with. Anything unrecognized is a 500.
func HTTPStatus(err error) int {
	var (
		validation *ValidationError
		authn      *AuthenticationError
		authz      *AuthorizationError
		notFound   *NotFoundError
		conflict   *ConflictError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &authn):
		return http.StatusUnauthorized
	case errors.As(err, &authz):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
