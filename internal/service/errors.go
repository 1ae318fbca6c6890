package service

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrUsernameTaken      = errors.New("a user with the given username is already registered")
	ErrInvalidCredentials = errors.New("password or username is incorrect")
	ErrInternalError      = errors.New("internal error")
)

// FieldError is a single violated rule of an input payload.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every rule a payload violated, not only the first.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, ", ")
}

func (e *ValidationError) Status() int {
	return http.StatusBadRequest
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

// Has reports whether field has at least one violation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
