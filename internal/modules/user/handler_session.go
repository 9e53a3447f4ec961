package user

import (
	"context"

	"github.com/safecity/backend/internal/contextx"
	"github.com/safecity/backend/internal/httpx"
)

// ProfileResponse returns the authenticated user's account.
type ProfileResponse struct {
	Body Sanitized
}

// ListSessionsResponse returns the user's active sessions.
type ListSessionsResponse struct {
	Body struct {
		Sessions []SessionInfo `json:"sessions"`
	}
}

// DeleteSessionRequest identifies the session to revoke.
type DeleteSessionRequest struct {
	ID string `path:"id"`
}

// DeleteSessionResponse confirms the revocation.
type DeleteSessionResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// GetProfileHandler returns the current user's profile.
func (h *Handler) GetProfileHandler(ctx context.Context, _ *struct{}) (*ProfileResponse, error) {
	userID, _ := ctx.Value(contextx.UserIDKey).(string)
	if userID == "" {
		return nil, httpx.ToProblem(ctx, ErrUnauthorized)
	}

	usr, err := h.service.GetProfile(ctx, userID)
	if err != nil {
		h.logger.Error("failed to load profile", "error", err, "user_id", userID)
		return nil, httpx.ToProblem(ctx, err)
	}

	return &ProfileResponse{Body: usr.Sanitize()}, nil
}

// ListSessionsHandler returns the current user's active sessions.
func (h *Handler) ListSessionsHandler(ctx context.Context, _ *struct{}) (*ListSessionsResponse, error) {
	userID, _ := ctx.Value(contextx.UserIDKey).(string)
	sessionID, _ := ctx.Value(contextx.SessionIDKey).(string)
	if userID == "" {
		return nil, httpx.ToProblem(ctx, ErrUnauthorized)
	}

	sessions, err := h.service.ListSessions(ctx, userID, sessionID)
	if err != nil {
		h.logger.Error("failed to list sessions", "error", err, "user_id", userID)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ListSessionsResponse{}
	resp.Body.Sessions = sessions
	return resp, nil
}

// DeleteSessionHandler revokes one of the current user's sessions.
func (h *Handler) DeleteSessionHandler(ctx context.Context, input *DeleteSessionRequest) (*DeleteSessionResponse, error) {
	userID, _ := ctx.Value(contextx.UserIDKey).(string)
	if userID == "" {
		return nil, httpx.ToProblem(ctx, ErrUnauthorized)
	}

	if err := h.service.DeleteSession(ctx, userID, input.ID); err != nil {
		h.logger.Warn("failed to delete session", "error", err, "user_id", userID, "session_id", input.ID)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &DeleteSessionResponse{}
	resp.Body.Message = "session revoked"
	return resp, nil
}
