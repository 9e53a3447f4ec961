package incident

import (
	"net/http"
	"time"

	"github.com/safecity/backend/internal/httpx"
)

// Incident is a citizen-filed report. Anonymous incidents carry no user id.
type Incident struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Location    *string   `db:"location" json:"location,omitempty"`
	IsAnonymous bool      `db:"is_anonymous" json:"isAnonymous"`
	UserID      *string   `db:"user_id" json:"userId,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`

	// Media is loaded separately; it has no db column on the incident row.
	Media []Media `db:"-" json:"media,omitempty"`
}

// Media is a stored attachment reference.
type Media struct {
	ID         string    `db:"id" json:"id"`
	IncidentID string    `db:"incident_id" json:"-"`
	URL        string    `db:"url" json:"url"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// ErrNotFound is returned when no incident matches the given id.
var ErrNotFound = &httpx.DomainError{
	Code:       "ErrIncidentNotFound",
	HTTPStatus: http.StatusNotFound,
	Title:      "Not Found",
	Message:    "incident not found",
	TypeURI:    "urn:problem:incident/err-not-found",
}
