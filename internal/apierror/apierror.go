// Package apierror provides the error envelope returned to clients and the
// typed domain errors the services raise. Handlers map a Kind to an HTTP
// status; internals (stack traces, SQL errors) are never exposed.
package apierror

import (
	"errors"
	"fmt"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors from request binding.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation error", Fields: fields}
}

// Kind classifies a domain error so transport code can pick a status and
// callers can decide whether retrying makes sense.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation: malformed input, caller's fault, never retried.
	KindValidation
	// KindNotFound: referenced entity absent or outside the tenant scope.
	KindNotFound
	// KindInvalidTransition: state machine precondition violated.
	KindInvalidTransition
	// KindInsufficientStock: ledger capacity exceeded.
	KindInsufficientStock
	// KindRequiresApproval: discount exceeds the ceiling for the actor's role.
	KindRequiresApproval
	// KindConflict: lock/version contention; the caller should retry the
	// whole operation, never resume it partway.
	KindConflict
)

// Error is a domain error with a Kind and a client-safe message describing
// the violated condition.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func InvalidTransition(format string, args ...interface{}) *Error {
	return newf(KindInvalidTransition, format, args...)
}

func InsufficientStock(format string, args ...interface{}) *Error {
	return newf(KindInsufficientStock, format, args...)
}

func RequiresApproval(format string, args ...interface{}) *Error {
	return newf(KindRequiresApproval, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newf(KindConflict, format, args...)
}

// KindOf extracts the Kind from an error chain, KindUnknown when none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
