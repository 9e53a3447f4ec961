package faq

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/safecity/backend/internal/httpx"
	"github.com/safecity/backend/internal/validation"
)

// Handler holds the dependencies for the FAQ module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler creates a new handler for the FAQ module.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routing for the FAQ module. Reads require
// authentication; mutations additionally require the ADMIN role.
func (h *Handler) RegisterRoutes(api huma.API, authenticate, requireAdmin func(huma.Context, func(huma.Context))) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/faqs",
		Summary:     "List FAQ entries",
		Middlewares: huma.Middlewares{authenticate},
	}, h.ListHandler)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/faqs/{id}",
		Summary:     "Get a FAQ entry",
		Middlewares: huma.Middlewares{authenticate},
	}, h.GetHandler)

	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/faqs",
		Summary:       "Create a FAQ entry",
		DefaultStatus: http.StatusCreated,
		Middlewares:   huma.Middlewares{authenticate, requireAdmin},
	}, h.CreateHandler)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPatch,
		Path:        "/faqs/{id}",
		Summary:     "Update a FAQ entry",
		Middlewares: huma.Middlewares{authenticate, requireAdmin},
	}, h.UpdateHandler)

	huma.Register(api, huma.Operation{
		Method:      http.MethodDelete,
		Path:        "/faqs/{id}",
		Summary:     "Delete a FAQ entry",
		Middlewares: huma.Middlewares{authenticate, requireAdmin},
	}, h.DeleteHandler)
}

// --- DTOs ---

// CreateFAQRequest defines the body for creating an entry.
type CreateFAQRequest struct {
	Body struct {
		Question string `json:"question" validate:"required"`
		Answer   string `json:"answer" validate:"required"`
	}
}

// UpdateFAQRequest defines the body for a partial update.
type UpdateFAQRequest struct {
	ID   string `path:"id"`
	Body struct {
		Question *string `json:"question,omitempty"`
		Answer   *string `json:"answer,omitempty"`
	}
}

// FAQResponse returns a single entry.
type FAQResponse struct {
	Body FAQ
}

// ListFAQResponse returns all entries.
type ListFAQResponse struct {
	Body struct {
		FAQs []FAQ `json:"faqs"`
	}
}

// GetFAQRequest identifies an entry by id.
type GetFAQRequest struct {
	ID string `path:"id"`
}

// DeleteFAQResponse confirms the deletion.
type DeleteFAQResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// --- Handlers ---

// ListHandler returns all FAQ entries.
func (h *Handler) ListHandler(ctx context.Context, _ *struct{}) (*ListFAQResponse, error) {
	faqs, err := h.service.List(ctx)
	if err != nil {
		h.logger.Error("failed to list faqs", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ListFAQResponse{}
	resp.Body.FAQs = faqs
	return resp, nil
}

// GetHandler returns one FAQ entry.
func (h *Handler) GetHandler(ctx context.Context, input *GetFAQRequest) (*FAQResponse, error) {
	f, err := h.service.Get(ctx, input.ID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &FAQResponse{Body: *f}, nil
}

// CreateHandler creates a FAQ entry.
func (h *Handler) CreateHandler(ctx context.Context, input *CreateFAQRequest) (*FAQResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	f, err := h.service.Create(ctx, input.Body.Question, input.Body.Answer)
	if err != nil {
		h.logger.Error("failed to create faq", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}
	return &FAQResponse{Body: *f}, nil
}

// UpdateHandler partially updates a FAQ entry.
func (h *Handler) UpdateHandler(ctx context.Context, input *UpdateFAQRequest) (*FAQResponse, error) {
	f, err := h.service.Update(ctx, input.ID, input.Body.Question, input.Body.Answer)
	if err != nil {
		h.logger.Warn("failed to update faq", "error", err, "faq_id", input.ID)
		return nil, httpx.ToProblem(ctx, err)
	}
	return &FAQResponse{Body: *f}, nil
}

// DeleteHandler removes a FAQ entry.
func (h *Handler) DeleteHandler(ctx context.Context, input *GetFAQRequest) (*DeleteFAQResponse, error) {
	if err := h.service.Delete(ctx, input.ID); err != nil {
		h.logger.Warn("failed to delete faq", "error", err, "faq_id", input.ID)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &DeleteFAQResponse{}
	resp.Body.Message = "faq deleted"
	return resp, nil
}
