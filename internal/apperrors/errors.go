package apperrors

import (
	"errors"
	"net/http"
)

// Kind is a closed set of error classes the HTTP layer knows how to render
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// HTTPStatus returns response status code hint for the kind
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Base errors, one per kind
// Repos and services wrap them (or the specific ones below) with fmt.Errorf("...: %w")
var (
	ErrInvalidInput = errors.New("invalid inputs")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrUserNotFound   = &kindError{msg: "user not found", base: ErrNotFound}
	ErrBadCredentials = &kindError{msg: "invalid username/password", base: ErrUnauthorized}
	ErrTokenInvalid   = &kindError{msg: "token is invalid", base: ErrUnauthorized}
)

// kindError is a well known error that also matches its base kind with errors.Is
type kindError struct {
	msg  string
	base error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.base }

// KindOf classifies err into one of the known kinds
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	default:
		return KindInternal
	}
}
