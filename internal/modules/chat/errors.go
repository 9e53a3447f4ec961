package chat

import (
	"net/http"

	"github.com/safecity/backend/internal/httpx"
)

// Pre-defined domain errors for the chat module.
var (
	ErrNotFound = &httpx.DomainError{
		Code:       "ErrChatNotFound",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "chat not found",
		TypeURI:    "urn:problem:chat/err-not-found",
	}

	ErrUserNotFound = &httpx.DomainError{
		Code:       "ErrChatUserNotFound",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "user not found",
		TypeURI:    "urn:problem:chat/err-user-not-found",
	}

	ErrForbidden = &httpx.DomainError{
		Code:       "ErrChatForbidden",
		HTTPStatus: http.StatusForbidden,
		Title:      "Forbidden",
		Message:    "not a participant of this chat",
		TypeURI:    "urn:problem:chat/err-forbidden",
	}

	// ErrChatClosed rejects officer assignment on a chat that has already
	// been closed.
	ErrChatClosed = &httpx.DomainError{
		Code:       "ErrChatClosed",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "chat is closed",
		TypeURI:    "urn:problem:chat/err-closed",
	}

	ErrEmptyMessage = &httpx.DomainError{
		Code:       "ErrEmptyMessage",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "message text must not be empty",
		TypeURI:    "urn:problem:chat/err-empty-message",
	}

	// ErrQueueEmpty is returned by claim when no pending chat is waiting.
	ErrQueueEmpty = &httpx.DomainError{
		Code:       "ErrQueueEmpty",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "no pending chats to claim",
		TypeURI:    "urn:problem:chat/err-queue-empty",
	}
)
