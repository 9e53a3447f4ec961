package chat

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Handler holds the dependencies for the chat module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler creates a new handler for the chat module.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routing for the chat module. All routes require
// authentication; officer routes additionally require the POLICY role, which
// the service re-checks from the caller's token role.
func (h *Handler) RegisterRoutes(api huma.API, authenticate func(huma.Context, func(huma.Context))) {
	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/chats",
		Summary:       "Open a new chat",
		DefaultStatus: http.StatusCreated,
		Middlewares:   huma.Middlewares{authenticate},
	}, h.CreateChatHandler)

	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/chats/messages",
		Summary:       "Send a message to a chat",
		DefaultStatus: http.StatusCreated,
		Middlewares:   huma.Middlewares{authenticate},
	}, h.SendMessageHandler)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/chats/pending",
		Summary:     "List chats awaiting or under handling (officers)",
		Middlewares: huma.Middlewares{authenticate},
	}, h.ListPendingHandler)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/chats/pending-user",
		Summary:     "List the caller's open chats",
		Middlewares: huma.Middlewares{authenticate},
	}, h.ListPendingUserHandler)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/chats/join",
		Summary:     "Join a chat as the handling officer",
		Middlewares: huma.Middlewares{authenticate},
	}, h.JoinHandler)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/chats/join-user",
		Summary:     "Join a chat as the requester",
		Middlewares: huma.Middlewares{authenticate},
	}, h.JoinUserHandler)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/chats/claim",
		Summary:     "Claim the oldest pending chat (officers)",
		Middlewares: huma.Middlewares{authenticate},
	}, h.ClaimHandler)
}
