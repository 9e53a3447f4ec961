package user

import (
	"context"

	"github.com/safecity/backend/internal/httpx"
	"github.com/safecity/backend/internal/validation"
)

// ForgotPasswordRequest defines the body for requesting a reset email.
type ForgotPasswordRequest struct {
	Body struct {
		Email string `json:"email" validate:"required,email"`
	}
}

// ForgotPasswordResponse confirms the reset email was dispatched.
type ForgotPasswordResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// ResetPasswordRequest defines the body for completing a password reset.
type ResetPasswordRequest struct {
	Body struct {
		Code     string `json:"code" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}
}

// ResetPasswordResponse confirms the password was changed.
type ResetPasswordResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// ForgotPasswordHandler handles the password reset request endpoint.
func (h *Handler) ForgotPasswordHandler(ctx context.Context, input *ForgotPasswordRequest) (*ForgotPasswordResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	if err := h.service.SendForgotPasswordEmail(ctx, input.Body.Email); err != nil {
		h.logger.Warn("forgot password failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ForgotPasswordResponse{}
	resp.Body.Message = "password reset email sent"
	return resp, nil
}

// ResetPasswordHandler handles the password reset completion endpoint.
func (h *Handler) ResetPasswordHandler(ctx context.Context, input *ResetPasswordRequest) (*ResetPasswordResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	if err := h.service.ResetPassword(ctx, input.Body.Password, input.Body.Code); err != nil {
		h.logger.Warn("password reset failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ResetPasswordResponse{}
	resp.Body.Message = "password reset"
	return resp, nil
}
