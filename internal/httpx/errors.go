package httpx

import (
	"errors"
)

// Sentinel error kinds. Handlers classify every failure into one of these
// before it crosses a service boundary; raw upstream detail stays in logs.
var (
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("authentication error")
	ErrNotFound   = errors.New("not found")
	ErrUpstream   = errors.New("upstream error")
	ErrInternal   = errors.New("internal error")
)

// Error pairs a taxonomy kind with a caller-facing message.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string // per-field detail for validation failures
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

func ValidationFields(msg string, fields map[string]string) *Error {
	return &Error{Kind: ErrValidation, Message: msg, Fields: fields}
}

func NotFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func Upstream(msg string) *Error {
	return &Error{Kind: ErrUpstream, Message: msg}
}

func Internal(msg string) *Error {
	return &Error{Kind: ErrInternal, Message: msg}
}
