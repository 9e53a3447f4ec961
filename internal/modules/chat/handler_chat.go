package chat

import (
	"context"

	"github.com/safecity/backend/internal/contextx"
	"github.com/safecity/backend/internal/httpx"
	"github.com/safecity/backend/internal/modules/user"
	"github.com/safecity/backend/internal/validation"
)

// --- DTOs ---

// CreateChatRequest defines the body for opening a chat.
type CreateChatRequest struct {
	Body struct {
		IsAnonymous bool `json:"isAnonymous"`
	}
}

// CreateChatResponse returns the newly opened chat.
type CreateChatResponse struct {
	Body View
}

// SendMessageRequest defines the body for posting a message over HTTP.
type SendMessageRequest struct {
	Body struct {
		ChatID string `json:"chatId" validate:"required"`
		Text   string `json:"text" validate:"required"`
	}
}

// SendMessageResponse returns the stored message decrypted.
type SendMessageResponse struct {
	Body MessageView
}

// ListChatsResponse returns chats plus the current queue depth.
type ListChatsResponse struct {
	Body struct {
		Chats       []View `json:"chats"`
		QueueLength int64  `json:"queueLength,omitempty"`
	}
}

// JoinChatRequest identifies the chat to join.
type JoinChatRequest struct {
	Body struct {
		ChatID string `json:"chatId" validate:"required"`
	}
}

// JoinChatResponse returns the chat after joining.
type JoinChatResponse struct {
	Body View
}

func principal(ctx context.Context) (string, user.Role) {
	userID, _ := ctx.Value(contextx.UserIDKey).(string)
	role, _ := ctx.Value(contextx.RoleKey).(user.Role)
	return userID, role
}

// --- Handlers ---

// CreateChatHandler opens a chat for the calling user.
func (h *Handler) CreateChatHandler(ctx context.Context, input *CreateChatRequest) (*CreateChatResponse, error) {
	userID, _ := principal(ctx)

	var requester *string
	if userID != "" {
		requester = &userID
	}

	c, err := h.service.CreateChat(ctx, requester, input.Body.IsAnonymous)
	if err != nil {
		h.logger.Error("failed to create chat", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	h.logger.Info("chat created", "chat_id", c.ID, "anonymous", c.IsAnonymous)
	return &CreateChatResponse{Body: c.View()}, nil
}

// SendMessageHandler posts a message to a chat the caller participates in.
func (h *Handler) SendMessageHandler(ctx context.Context, input *SendMessageRequest) (*SendMessageResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	userID, _ := principal(ctx)
	if _, err := h.service.Access(ctx, input.Body.ChatID, userID); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	view, err := h.service.SendMessage(ctx, input.Body.ChatID, &userID, input.Body.Text)
	if err != nil {
		h.logger.Error("failed to send message", "error", err, "chat_id", input.Body.ChatID)
		return nil, httpx.ToProblem(ctx, err)
	}

	return &SendMessageResponse{Body: *view}, nil
}

// ListPendingHandler lists every non-closed chat for officers.
func (h *Handler) ListPendingHandler(ctx context.Context, _ *struct{}) (*ListChatsResponse, error) {
	_, role := principal(ctx)
	if !role.Allows(user.RolePolicy) {
		return nil, httpx.ToProblem(ctx, ErrForbidden)
	}

	chats, err := h.service.ListPending(ctx, nil)
	if err != nil {
		h.logger.Error("failed to list pending chats", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	queueLen, err := h.service.QueueLen(ctx)
	if err != nil {
		h.logger.Error("failed to read queue length", "error", err)
		queueLen = 0
	}

	resp := &ListChatsResponse{}
	resp.Body.Chats = views(chats)
	resp.Body.QueueLength = queueLen
	return resp, nil
}

// ListPendingUserHandler lists the caller's own open chats.
func (h *Handler) ListPendingUserHandler(ctx context.Context, _ *struct{}) (*ListChatsResponse, error) {
	userID, _ := principal(ctx)

	chats, err := h.service.ListPending(ctx, &userID)
	if err != nil {
		h.logger.Error("failed to list user chats", "error", err, "user_id", userID)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ListChatsResponse{}
	resp.Body.Chats = views(chats)
	return resp, nil
}

// JoinHandler assigns the calling officer to a chat.
func (h *Handler) JoinHandler(ctx context.Context, input *JoinChatRequest) (*JoinChatResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	userID, role := principal(ctx)
	c, err := h.service.JoinAsOfficer(ctx, input.Body.ChatID, userID, role)
	if err != nil {
		h.logger.Warn("officer join failed", "error", err, "chat_id", input.Body.ChatID)
		return nil, httpx.ToProblem(ctx, err)
	}

	h.logger.Info("officer joined chat", "chat_id", c.ID, "officer_id", userID)
	return &JoinChatResponse{Body: c.View()}, nil
}

// JoinUserHandler attaches the calling user as a chat's requester.
func (h *Handler) JoinUserHandler(ctx context.Context, input *JoinChatRequest) (*JoinChatResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	userID, _ := principal(ctx)
	c, err := h.service.JoinAsRequester(ctx, input.Body.ChatID, userID)
	if err != nil {
		h.logger.Warn("requester join failed", "error", err, "chat_id", input.Body.ChatID)
		return nil, httpx.ToProblem(ctx, err)
	}

	return &JoinChatResponse{Body: c.View()}, nil
}

// ClaimHandler pops the oldest pending chat and joins it as the officer.
func (h *Handler) ClaimHandler(ctx context.Context, _ *struct{}) (*JoinChatResponse, error) {
	userID, role := principal(ctx)

	c, err := h.service.Claim(ctx, userID, role)
	if err != nil {
		h.logger.Warn("chat claim failed", "error", err, "officer_id", userID)
		return nil, httpx.ToProblem(ctx, err)
	}

	h.logger.Info("chat claimed", "chat_id", c.ID, "officer_id", userID)
	return &JoinChatResponse{Body: c.View()}, nil
}

func views(chats []Chat) []View {
	out := make([]View, 0, len(chats))
	for i := range chats {
		out = append(out, chats[i].View())
	}
	return out
}
