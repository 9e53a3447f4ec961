package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/safecity/backend/internal/config"
	"github.com/safecity/backend/internal/contextx"
	"github.com/safecity/backend/internal/httpx"
	appmw "github.com/safecity/backend/internal/middleware"
	"github.com/safecity/backend/internal/modules/chat"
	"github.com/safecity/backend/internal/modules/faq"
	"github.com/safecity/backend/internal/modules/incident"
	"github.com/safecity/backend/internal/modules/user"
	"github.com/safecity/backend/internal/realtime"
	"github.com/safecity/backend/internal/token"
	"github.com/safecity/backend/internal/validation"
)

// Deps bundles everything the router needs.
type Deps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Tokens   *token.Service
	Users    user.Service
	Chats    chat.Service
	FAQs     faq.Service
	Incident incident.Service
	Gateway  *realtime.Gateway
}

// New creates and configures the HTTP router: chi middleware, the huma API
// with every module's routes, the websocket endpoint and static uploads.
func New(d Deps) chi.Router {
	router := chi.NewMux()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(60 * time.Second))

	apiConfig := huma.DefaultConfig("SafeCity API", "1.0.0")
	apiConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	api := humachi.New(router, apiConfig)

	authenticate := appmw.Authenticate(d.Tokens, d.Logger)
	requireAdmin := appmw.RequireRole(user.RoleAdmin, d.Logger)
	requirePolicy := appmw.RequireRole(user.RolePolicy, d.Logger)

	user.NewHandler(d.Users, d.Logger).RegisterRoutes(api, authenticate)
	chat.NewHandler(d.Chats, d.Logger).RegisterRoutes(api, authenticate)
	faq.NewHandler(d.FAQs, d.Logger).RegisterRoutes(api, authenticate, requireAdmin)
	incident.NewHandler(d.Incident, d.Logger).RegisterRoutes(api, authenticate)

	registerEmergencyRoute(api, d.Gateway, d.Logger, authenticate, requirePolicy)

	// Real-time gateway; authentication happens inside the upgrade handler
	// since huma does not speak websocket.
	router.Get("/ws", d.Gateway.ServeHTTP)

	// Incident media stored on local disk.
	router.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(d.Config.Upload.Dir))))

	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health Check",
		Description: "Responds with the server's health status.",
	}, func(ctx context.Context, input *struct{}) (*struct {
		Body struct {
			Status string `json:"status"`
		}
	}, error) {
		resp := &struct {
			Body struct {
				Status string `json:"status"`
			}
		}{}
		resp.Body.Status = "ok"
		return resp, nil
	})

	return router
}

// EmergencyRequest defines the body for broadcasting an emergency alert.
type EmergencyRequest struct {
	Body struct {
		Title string `json:"title" validate:"required"`
		Body  string `json:"body" validate:"required"`
	}
}

// EmergencyResponse confirms the broadcast.
type EmergencyResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// registerEmergencyRoute wires the emergency broadcast. Officer-level
// accounts push an emergencyUpdate event to every connected gateway client.
func registerEmergencyRoute(api huma.API, gateway *realtime.Gateway, logger *slog.Logger, mws ...func(huma.Context, func(huma.Context))) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/emergency",
		Summary:     "Broadcast an emergency alert to all connected clients",
		Middlewares: huma.Middlewares(mws),
	}, func(ctx context.Context, input *EmergencyRequest) (*EmergencyResponse, error) {
		if err := validation.ValidateStruct(input.Body); err != nil {
			return nil, httpx.ToProblem(ctx, err)
		}

		if err := gateway.BroadcastEmergency(realtime.EmergencyData{
			Title: input.Body.Title,
			Body:  input.Body.Body,
		}); err != nil {
			logger.Error("emergency broadcast failed", "error", err)
			return nil, httpx.InternalProblem(ctx, "")
		}

		senderID, _ := ctx.Value(contextx.UserIDKey).(string)
		logger.Info("emergency broadcast", "title", input.Body.Title, "sender_id", senderID)

		resp := &EmergencyResponse{}
		resp.Body.Message = "emergency broadcast sent"
		return resp, nil
	})
}
