package user

import (
	"net/http"

	"github.com/safecity/backend/internal/httpx"
)

// Pre-defined domain errors for the user module. Compared with errors.Is;
// wrap a cause with WithCause without losing the sentinel match.
var (
	ErrNotFound = &httpx.DomainError{
		Code:       "ErrNotFound",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "resource not found",
		TypeURI:    "urn:problem:user/err-not-found",
	}

	ErrUnauthorized = &httpx.DomainError{
		Code:       "ErrUnauthorized",
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Unauthorized",
		Message:    "not authorized",
		TypeURI:    "urn:problem:user/err-unauthorized",
	}

	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password, with the same message, to avoid account enumeration.
	ErrInvalidCredentials = &httpx.DomainError{
		Code:       "ErrInvalidCredentials",
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Unauthorized",
		Message:    "invalid email or password",
		TypeURI:    "urn:problem:user/err-invalid-credentials",
	}

	ErrForbidden = &httpx.DomainError{
		Code:       "ErrForbidden",
		HTTPStatus: http.StatusForbidden,
		Title:      "Forbidden",
		Message:    "insufficient permissions",
		TypeURI:    "urn:problem:user/err-forbidden",
	}

	ErrEmailExists = &httpx.DomainError{
		Code:       "ErrEmailExists",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "email already in use",
		TypeURI:    "urn:problem:user/err-email-exists",
	}

	ErrInvalidCode = &httpx.DomainError{
		Code:       "ErrInvalidCode",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "invalid or expired verification code",
		TypeURI:    "urn:problem:user/err-invalid-code",
	}

	ErrTooManyRequests = &httpx.DomainError{
		Code:       "ErrTooManyRequests",
		HTTPStatus: http.StatusTooManyRequests,
		Title:      "Too Many Requests",
		Message:    "too many requests, please try again later",
		TypeURI:    "urn:problem:user/err-too-many-requests",
	}

	ErrInternal = &httpx.DomainError{
		Code:       "ErrInternal",
		HTTPStatus: http.StatusInternalServerError,
		Title:      "Internal Server Error",
		Message:    "internal server error",
		TypeURI:    "urn:problem:user/err-internal",
	}
)
