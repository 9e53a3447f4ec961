package chat

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/safecity/backend/internal/database"
)

// Repository defines the persistence operations for chats and messages.
type Repository interface {
	CreateChat(ctx context.Context, c *Chat) error
	FindChatByID(ctx context.Context, id string) (*Chat, error)
	// AssignOfficer performs the officer assignment as one conditional
	// UPDATE: it succeeds only while the chat is OPEN or IN_PROGRESS, so two
	// racing joins cannot both move the chat out of a terminal state.
	AssignOfficer(ctx context.Context, chatID, officerID string) (*Chat, error)
	// AssignUser attaches a requester to a chat that has none.
	AssignUser(ctx context.Context, chatID, userID string) (*Chat, error)
	// ListPendingChats returns chats whose status is not CLOSED, newest
	// first. A non-nil forUserID scopes the list to that requester.
	ListPendingChats(ctx context.Context, forUserID *string) ([]Chat, error)

	CreateMessage(ctx context.Context, m *Message) error
	// ListMessagesByChat returns the chat's messages in creation order.
	ListMessagesByChat(ctx context.Context, chatID string) ([]Message, error)
}

// repository implements Repository against PostgreSQL.
type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new chat repository.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}
