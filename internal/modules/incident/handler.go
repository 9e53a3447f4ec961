package incident

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/safecity/backend/internal/contextx"
	"github.com/safecity/backend/internal/httpx"
	"github.com/safecity/backend/internal/modules/user"
	"github.com/safecity/backend/internal/validation"
)

// Handler holds the dependencies for the incident module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler creates a new handler for the incident module.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routing for the incident module.
func (h *Handler) RegisterRoutes(api huma.API, authenticate func(huma.Context, func(huma.Context))) {
	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/incidents",
		Summary:       "File an incident report",
		DefaultStatus: http.StatusCreated,
		Middlewares:   huma.Middlewares{authenticate},
	}, h.CreateHandler)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/incidents",
		Summary:     "List all incidents (officers)",
		Middlewares: huma.Middlewares{authenticate},
	}, h.ListAllHandler)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/incidents/mine",
		Summary:     "List the caller's incidents",
		Middlewares: huma.Middlewares{authenticate},
	}, h.ListOwnHandler)
}

// --- DTOs ---

// MediaUpload is a base64-encoded attachment in the create request.
type MediaUpload struct {
	Filename string `json:"filename" validate:"required"`
	Data     string `json:"data" validate:"required,base64"`
}

// CreateIncidentRequest defines the body for filing an incident.
type CreateIncidentRequest struct {
	Body struct {
		Title       string        `json:"title" validate:"required,min=3"`
		Description string        `json:"description" validate:"required"`
		Location    *string       `json:"location,omitempty"`
		IsAnonymous bool          `json:"isAnonymous"`
		Media       []MediaUpload `json:"media,omitempty" validate:"omitempty,dive"`
	}
}

// IncidentResponse returns a single incident.
type IncidentResponse struct {
	Body Incident
}

// ListIncidentsResponse returns a set of incidents.
type ListIncidentsResponse struct {
	Body struct {
		Incidents []Incident `json:"incidents"`
	}
}

// --- Handlers ---

// CreateHandler files an incident for the calling user.
func (h *Handler) CreateHandler(ctx context.Context, input *CreateIncidentRequest) (*IncidentResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	attachments := make([]Attachment, 0, len(input.Body.Media))
	for _, m := range input.Body.Media {
		data, err := base64.StdEncoding.DecodeString(m.Data)
		if err != nil {
			return nil, httpx.ValidationProblem(ctx, "media data is invalid", map[string][]string{"media": {"must be base64"}})
		}
		attachments = append(attachments, Attachment{Filename: m.Filename, Data: data})
	}

	userID, _ := ctx.Value(contextx.UserIDKey).(string)
	var reporter *string
	if userID != "" {
		reporter = &userID
	}

	in, err := h.service.Create(ctx, reporter, input.Body.Title, input.Body.Description, input.Body.Location, input.Body.IsAnonymous, attachments)
	if err != nil {
		h.logger.Error("failed to file incident", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	return &IncidentResponse{Body: *in}, nil
}

// ListAllHandler returns every incident; officers only.
func (h *Handler) ListAllHandler(ctx context.Context, _ *struct{}) (*ListIncidentsResponse, error) {
	role, _ := ctx.Value(contextx.RoleKey).(user.Role)
	if !role.Allows(user.RolePolicy) {
		return nil, httpx.ToProblem(ctx, user.ErrForbidden)
	}

	incidents, err := h.service.ListAll(ctx)
	if err != nil {
		h.logger.Error("failed to list incidents", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ListIncidentsResponse{}
	resp.Body.Incidents = incidents
	return resp, nil
}

// ListOwnHandler returns the caller's incidents.
func (h *Handler) ListOwnHandler(ctx context.Context, _ *struct{}) (*ListIncidentsResponse, error) {
	userID, _ := ctx.Value(contextx.UserIDKey).(string)

	incidents, err := h.service.ListOwn(ctx, userID)
	if err != nil {
		h.logger.Error("failed to list own incidents", "error", err, "user_id", userID)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ListIncidentsResponse{}
	resp.Body.Incidents = incidents
	return resp, nil
}
