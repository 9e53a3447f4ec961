package user

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/safecity/backend/internal/token"
)

// Handler holds the dependencies for the user module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler creates a new handler for the user module.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routing for the user module. Profile and session
// routes require the provided authentication middleware; the auth protocol
// routes are public.
func (h *Handler) RegisterRoutes(api huma.API, authenticate func(huma.Context, func(huma.Context))) {
	// --- Authentication protocol ---
	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/auth/register",
		Summary:       "Register a new account",
		DefaultStatus: http.StatusCreated,
	}, h.RegisterHandler)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/auth/login",
		Summary: "Log in with email and password",
	}, h.LoginHandler)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/auth/logout",
		Summary: "Log out and revoke the current session",
	}, h.LogoutHandler)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/auth/refresh",
		Summary: "Exchange the refresh token for a new access token",
	}, h.RefreshHandler)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/auth/email/verify/{code}",
		Summary: "Verify an email address",
	}, h.VerifyEmailHandler)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/auth/password/forgot",
		Summary: "Request a password reset email",
	}, h.ForgotPasswordHandler)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/auth/password/reset",
		Summary: "Reset the password with a code",
	}, h.ResetPasswordHandler)

	// --- Profile and sessions (authenticated) ---
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/user",
		Summary:     "Get the current user's profile",
		Middlewares: huma.Middlewares{authenticate},
	}, h.GetProfileHandler)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/sessions",
		Summary:     "List the current user's active sessions",
		Middlewares: huma.Middlewares{authenticate},
	}, h.ListSessionsHandler)

	huma.Register(api, huma.Operation{
		Method:      http.MethodDelete,
		Path:        "/sessions/{id}",
		Summary:     "Revoke one of the current user's sessions",
		Middlewares: huma.Middlewares{authenticate},
	}, h.DeleteSessionHandler)
}

// --- Cookie helpers ---

const refreshCookiePath = "/auth/refresh"

func accessCookie(value string) http.Cookie {
	return http.Cookie{
		Name:     "accessToken",
		Value:    value,
		Path:     "/",
		MaxAge:   int(token.AccessTokenTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func refreshCookie(value string) http.Cookie {
	return http.Cookie{
		Name:     "refreshToken",
		Value:    value,
		Path:     refreshCookiePath,
		MaxAge:   int(token.RefreshTokenTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func clearedCookies() []http.Cookie {
	access := accessCookie("")
	access.MaxAge = -1
	refresh := refreshCookie("")
	refresh.MaxAge = -1
	return []http.Cookie{access, refresh}
}
