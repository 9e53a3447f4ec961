package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTestConflict = &DomainError{
	Code:       "ErrTestConflict",
	HTTPStatus: http.StatusConflict,
	Title:      "Conflict",
	Message:    "already there",
	TypeURI:    "urn:problem:test/err-conflict",
}

func TestDomainErrorSentinelMatching(t *testing.T) {
	cause := errors.New("unique_violation")
	wrapped := errTestConflict.WithCause(cause)

	assert.ErrorIs(t, wrapped, errTestConflict)
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, wrapped.Error(), "already there")

	// Matching survives an extra fmt wrap.
	again := fmt.Errorf("saving: %w", wrapped)
	assert.ErrorIs(t, again, errTestConflict)
}

func TestToProblemFormatsDomainError(t *testing.T) {
	err := ToProblem(context.Background(), errTestConflict.WithCause(errors.New("boom")))

	var p *Problem
	require.ErrorAs(t, err, &p)
	assert.Equal(t, http.StatusConflict, p.GetStatus())
	assert.Equal(t, "ErrTestConflict", p.Code)
	assert.Equal(t, "already there", p.Detail)
	assert.Equal(t, "urn:problem:test/err-conflict", p.Type)
}

func TestToProblemFindsWrappedDomainError(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", errTestConflict)

	var p *Problem
	require.ErrorAs(t, ToProblem(context.Background(), wrapped), &p)
	assert.Equal(t, "ErrTestConflict", p.Code)
}

func TestToProblemHidesUnknownErrors(t *testing.T) {
	err := ToProblem(context.Background(), errors.New("pq: connection refused"))

	var p *Problem
	require.ErrorAs(t, err, &p)
	assert.Equal(t, http.StatusInternalServerError, p.GetStatus())
	assert.Equal(t, "ErrInternal", p.Code)
	assert.NotContains(t, p.Detail, "connection refused")
}

func TestToProblemNil(t *testing.T) {
	assert.NoError(t, ToProblem(context.Background(), nil))
}

func TestProblemContentType(t *testing.T) {
	p := &Problem{Status: http.StatusBadRequest}
	assert.Equal(t, "application/problem+json", p.ContentType("application/json"))
	assert.Equal(t, "text/plain", p.ContentType("text/plain"))
}
