package user

import (
	"context"

	"github.com/safecity/backend/internal/httpx"
)

// VerifyEmailRequest carries the verification code from the emailed link.
type VerifyEmailRequest struct {
	Code string `path:"code"`
}

// VerifyEmailResponse confirms the verification.
type VerifyEmailResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// VerifyEmailHandler handles the email verification endpoint.
func (h *Handler) VerifyEmailHandler(ctx context.Context, input *VerifyEmailRequest) (*VerifyEmailResponse, error) {
	if err := h.service.VerifyEmail(ctx, input.Code); err != nil {
		h.logger.Warn("email verification failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &VerifyEmailResponse{}
	resp.Body.Message = "email verified"
	return resp, nil
}
