package httpx

import (
	"fmt"
	"net/http"
)

// DomainError is a structured, self-describing business error shared by the
// domain modules. It carries RFC7807-friendly metadata so ToProblem can
// convert any domain error into a problem response without enumerating error
// types. Modules declare sentinel values and compare with errors.Is; Is
// matches on the stable Code so copies created via WithCause still match
// their sentinel.
type DomainError struct {
	// Code is a stable, machine-readable business code (e.g., "ErrEmailExists").
	Code string

	// HTTPStatus is the HTTP status suggested for this error.
	HTTPStatus int

	// Title is a short human summary; if empty the formatter defaults to
	// StatusText(HTTPStatus).
	Title string

	// Message is a human-readable message used as the public detail.
	Message string

	// TypeURI is an RFC7807 type URI for documentation.
	TypeURI string

	// cause is the underlying error that triggered this one, if any.
	cause error
}

// Error satisfies the standard Go error interface.
func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap provides compatibility for errors.Is and errors.As,
// allowing access to the underlying error chain.
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is enables errors.Is comparisons based on the stable Code rather than
// pointer identity.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the DomainError wrapping the provided cause.
func (e *DomainError) WithCause(err error) *DomainError {
	if err == nil {
		return e
	}
	cp := *e
	cp.cause = err
	return &cp
}

// --- RFC7807 mapping accessors (satisfy DomainProblem) ---

func (e *DomainError) ProblemCode() string { return e.Code }
func (e *DomainError) ProblemStatus() int {
	if e.HTTPStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.HTTPStatus
}
func (e *DomainError) ProblemTitle() string   { return e.Title }
func (e *DomainError) ProblemDetail() string  { return e.Message }
func (e *DomainError) ProblemTypeURI() string { return e.TypeURI }
func (e *DomainError) ProblemContext() any    { return nil }
