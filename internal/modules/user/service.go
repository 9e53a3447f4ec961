package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/safecity/backend/internal/token"
)

// RegisterParams carries the registration input after handler-level validation.
type RegisterParams struct {
	Username    string
	Email       string
	Password    string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Address     *string
	City        *string
	Region      *string
	Role        Role
	UserAgent   *string
}

// SessionInfo is the public view of a session for the sessions API.
type SessionInfo struct {
	ID        string    `json:"id"`
	UserAgent *string   `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	IsCurrent bool      `json:"isCurrent,omitempty"`
}

// Service defines the interface for the user module's business logic: the
// authentication protocol, session management and profile access.
type Service interface {
	Register(ctx context.Context, params RegisterParams) (*User, error)
	Login(ctx context.Context, email, password string, userAgent *string) (*User, string, string, error)
	Logout(ctx context.Context, accessToken string)
	// RefreshAccessToken returns a fresh access token and, when the session
	// was rotated, a new refresh token (empty string otherwise).
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, string, error)
	VerifyEmail(ctx context.Context, code string) error
	SendForgotPasswordEmail(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, password, code string) error

	GetProfile(ctx context.Context, userID string) (*User, error)
	ListSessions(ctx context.Context, userID, currentSessionID string) ([]SessionInfo, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error
}

// Mailer sends account lifecycle emails and reports a dispatch id.
type Mailer interface {
	SendVerifyEmail(ctx context.Context, to, url string) (string, error)
	SendPasswordReset(ctx context.Context, to, url string) (string, error)
}

// service implements the Service interface.
type service struct {
	repo      Repository
	logger    *slog.Logger
	tokens    *token.Service
	mailer    Mailer
	appOrigin string
	now       func() time.Time
}

// Config holds the dependencies for the user service.
type Config struct {
	Repo      Repository
	Logger    *slog.Logger
	Tokens    *token.Service
	Mailer    Mailer
	AppOrigin string
}

// NewService creates a new user service with the given dependencies.
func NewService(cfg *Config) Service {
	return &service{
		repo:      cfg.Repo,
		logger:    cfg.Logger,
		tokens:    cfg.Tokens,
		mailer:    cfg.Mailer,
		appOrigin: cfg.AppOrigin,
		now:       time.Now,
	}
}
