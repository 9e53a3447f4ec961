package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/safecity/backend/internal/contextx"
	"github.com/safecity/backend/internal/httpx"
	"github.com/safecity/backend/internal/modules/user"
	"github.com/safecity/backend/internal/token"
)

// AccessTokenCookie is the cookie holding the short-lived access token.
const AccessTokenCookie = "accessToken"

// TokenFromRequest extracts the access token from the accessToken cookie,
// falling back to an Authorization bearer header for non-browser clients.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if bearer, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		return bearer
	}
	return ""
}

func writeProblem(w http.ResponseWriter, p *httpx.Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.GetStatus())
	_ = json.NewEncoder(w).Encode(p)
}

// Authenticate is a router-agnostic Huma middleware that validates the access
// token and injects the caller's user id, session id and role into the
// request context. On failure it writes an RFC7807 problem+json response.
func Authenticate(tokens *token.Service, logger *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		r, w := humachi.Unwrap(ctx)

		unauthorized := func(detail string) {
			writeProblem(w, &httpx.Problem{
				Type:      "urn:problem:user/err-unauthorized",
				Title:     http.StatusText(http.StatusUnauthorized),
				Status:    http.StatusUnauthorized,
				Detail:    detail,
				Code:      "ErrUnauthorized",
				RequestID: chimw.GetReqID(r.Context()),
			})
		}

		tokenString := TokenFromRequest(r)
		if tokenString == "" {
			unauthorized("missing access token")
			return
		}

		claims, err := tokens.VerifyAccessToken(tokenString)
		if err != nil {
			logger.Warn("invalid access token", "error", err)
			unauthorized("invalid or expired token")
			return
		}

		ctx = huma.WithValue(ctx, contextx.UserIDKey, claims.UserID)
		ctx = huma.WithValue(ctx, contextx.SessionIDKey, claims.SessionID)
		ctx = huma.WithValue(ctx, contextx.RoleKey, user.Role(claims.Role))
		next(ctx)
	}
}

// RequireRole guards an operation behind a minimum role. It must run after
// Authenticate, which puts the caller's role into the context.
func RequireRole(required user.Role, logger *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		role, _ := ctx.Context().Value(contextx.RoleKey).(user.Role)
		if !role.Allows(required) {
			r, w := humachi.Unwrap(ctx)
			logger.Warn("forbidden", "required_role", required, "role", role)
			writeProblem(w, &httpx.Problem{
				Type:      "urn:problem:user/err-forbidden",
				Title:     http.StatusText(http.StatusForbidden),
				Status:    http.StatusForbidden,
				Detail:    "insufficient permissions",
				Code:      "ErrForbidden",
				RequestID: chimw.GetReqID(r.Context()),
			})
			return
		}
		next(ctx)
	}
}
