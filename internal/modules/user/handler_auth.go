package user

import (
	"context"
	"net/http"

	"github.com/safecity/backend/internal/httpx"
	"github.com/safecity/backend/internal/validation"
)

// --- DTOs (Data Transfer Objects) ---

// RegisterRequest defines the structure for the registration request body.
type RegisterRequest struct {
	UserAgent string `header:"User-Agent"`
	Body      struct {
		Username    string  `json:"username" validate:"required,min=3,max=64"`
		Email       string  `json:"email" validate:"required,email"`
		Password    string  `json:"password" validate:"required,min=8"`
		FirstName   *string `json:"firstName,omitempty"`
		LastName    *string `json:"lastName,omitempty"`
		PhoneNumber *string `json:"phoneNumber,omitempty"`
		Address     *string `json:"address,omitempty"`
		City        *string `json:"city,omitempty"`
		Region      *string `json:"region,omitempty"`
		Role        string  `json:"role,omitempty" validate:"omitempty,oneof=USER POLICY ADMIN"`
	}
}

// RegisterResponse returns the newly created account without the password hash.
type RegisterResponse struct {
	Body Sanitized
}

// LoginRequest defines the structure for the login request body.
type LoginRequest struct {
	UserAgent string `header:"User-Agent"`
	Body      struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
}

// LoginResponse carries the sanitized user; the tokens travel in cookies.
type LoginResponse struct {
	SetCookie []http.Cookie `header:"Set-Cookie"`
	Body      Sanitized
}

// LogoutRequest reads the access token cookie so the backing session can be
// revoked even when the token has expired.
type LogoutRequest struct {
	AccessToken http.Cookie `cookie:"accessToken"`
}

// LogoutResponse clears both token cookies.
type LogoutResponse struct {
	SetCookie []http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Message string `json:"message"`
	}
}

// RefreshRequest reads the refresh token cookie.
type RefreshRequest struct {
	RefreshToken http.Cookie `cookie:"refreshToken"`
}

// RefreshResponse sets a fresh access token cookie and, when the session was
// rotated, a new refresh token cookie.
type RefreshResponse struct {
	SetCookie []http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Message string `json:"message"`
	}
}

// --- Handlers ---

// RegisterHandler handles the account registration endpoint.
func (h *Handler) RegisterHandler(ctx context.Context, input *RegisterRequest) (*RegisterResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	role, ok := ParseRole(input.Body.Role)
	if !ok {
		return nil, httpx.ValidationProblem(ctx, "role is invalid", map[string][]string{"role": {"is invalid"}})
	}

	usr, err := h.service.Register(ctx, RegisterParams{
		Username:    input.Body.Username,
		Email:       input.Body.Email,
		Password:    input.Body.Password,
		FirstName:   input.Body.FirstName,
		LastName:    input.Body.LastName,
		PhoneNumber: input.Body.PhoneNumber,
		Address:     input.Body.Address,
		City:        input.Body.City,
		Region:      input.Body.Region,
		Role:        role,
		UserAgent:   optional(input.UserAgent),
	})
	if err != nil {
		h.logger.Error("registration failed", "error", err, "email", input.Body.Email)
		return nil, httpx.ToProblem(ctx, err)
	}

	h.logger.Info("user registered", "user_id", usr.ID)
	return &RegisterResponse{Body: usr.Sanitize()}, nil
}

// LoginHandler handles the login endpoint.
func (h *Handler) LoginHandler(ctx context.Context, input *LoginRequest) (*LoginResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	usr, accessToken, refreshToken, err := h.service.Login(ctx, input.Body.Email, input.Body.Password, optional(input.UserAgent))
	if err != nil {
		h.logger.Warn("login failed", "email", input.Body.Email, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	return &LoginResponse{
		SetCookie: []http.Cookie{accessCookie(accessToken), refreshCookie(refreshToken)},
		Body:      usr.Sanitize(),
	}, nil
}

// LogoutHandler revokes the current session and clears both cookies. It never
// fails: a missing or garbled token still results in cleared cookies.
func (h *Handler) LogoutHandler(ctx context.Context, input *LogoutRequest) (*LogoutResponse, error) {
	if input.AccessToken.Value != "" {
		h.service.Logout(ctx, input.AccessToken.Value)
	}

	resp := &LogoutResponse{SetCookie: clearedCookies()}
	resp.Body.Message = "logged out"
	return resp, nil
}

// RefreshHandler exchanges the refresh token cookie for a fresh access token
// cookie, rotating the refresh token when the session is close to expiry.
func (h *Handler) RefreshHandler(ctx context.Context, input *RefreshRequest) (*RefreshResponse, error) {
	if input.RefreshToken.Value == "" {
		return nil, httpx.ToProblem(ctx, ErrUnauthorized)
	}

	accessToken, newRefreshToken, err := h.service.RefreshAccessToken(ctx, input.RefreshToken.Value)
	if err != nil {
		h.logger.Warn("token refresh failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	cookies := []http.Cookie{accessCookie(accessToken)}
	if newRefreshToken != "" {
		cookies = append(cookies, refreshCookie(newRefreshToken))
	}

	resp := &RefreshResponse{SetCookie: cookies}
	resp.Body.Message = "token refreshed"
	return resp, nil
}

// optional maps an empty string to nil for nullable columns.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
