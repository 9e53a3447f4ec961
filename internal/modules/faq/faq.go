package faq

import (
	"net/http"
	"time"

	"github.com/safecity/backend/internal/httpx"
)

// FAQ is a frequently-asked question entry maintained by administrators.
type FAQ struct {
	ID        string    `db:"id" json:"id"`
	Question  string    `db:"question" json:"question"`
	Answer    string    `db:"answer" json:"answer"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ErrNotFound is returned when no FAQ entry matches the given id.
var ErrNotFound = &httpx.DomainError{
	Code:       "ErrFAQNotFound",
	HTTPStatus: http.StatusNotFound,
	Title:      "Not Found",
	Message:    "faq not found",
	TypeURI:    "urn:problem:faq/err-not-found",
}
