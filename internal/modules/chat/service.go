package chat

import (
	"context"
	"log/slog"

	"github.com/safecity/backend/internal/cryptox"
	"github.com/safecity/backend/internal/modules/user"
)

// UserFinder is the slice of the user repository the chat service needs to
// validate requesters. user.Repository satisfies it.
type UserFinder interface {
	FindUserByID(ctx context.Context, id string) (*user.User, error)
}

// Service defines the chat module's business logic: the chat lifecycle,
// encrypted message persistence and the pending-chat queue.
type Service interface {
	// CreateChat opens a chat. Anonymous chats never record a requester,
	// even when the caller is logged in; non-anonymous chats require an
	// existing user.
	CreateChat(ctx context.Context, userID *string, isAnonymous bool) (*Chat, error)
	// SendMessage encrypts and persists a message, returning the decrypted
	// view for delivery.
	SendMessage(ctx context.Context, chatID string, senderID *string, text string) (*MessageView, error)
	// JoinAsOfficer assigns an officer to a chat, moving it to IN_PROGRESS.
	JoinAsOfficer(ctx context.Context, chatID, officerID string, role user.Role) (*Chat, error)
	// JoinAsRequester attaches the calling user as the chat's requester.
	JoinAsRequester(ctx context.Context, chatID, userID string) (*Chat, error)
	// Claim pops the oldest waiting chat off the queue and joins it.
	Claim(ctx context.Context, officerID string, role user.Role) (*Chat, error)
	// ListPending returns non-closed chats; a non-nil forUserID scopes the
	// list to that requester's own chats.
	ListPending(ctx context.Context, forUserID *string) ([]Chat, error)
	// History returns the chat's messages decrypted, oldest first, after an
	// access check.
	History(ctx context.Context, chatID, userID string) ([]MessageView, error)
	// Access loads a chat and verifies the user may read and write it.
	Access(ctx context.Context, chatID, userID string) (*Chat, error)
	// QueueLen reports how many chats are waiting for an officer.
	QueueLen(ctx context.Context) (int64, error)
}

// service implements the Service interface.
type service struct {
	repo   Repository
	users  UserFinder
	queue  Queue
	codec  *cryptox.Codec
	logger *slog.Logger
}

// Config holds the dependencies for the chat service.
type Config struct {
	Repo   Repository
	Users  UserFinder
	Queue  Queue
	Codec  *cryptox.Codec
	Logger *slog.Logger
}

// NewService creates a new chat service with the given dependencies.
func NewService(cfg *Config) Service {
	return &service{
		repo:   cfg.Repo,
		users:  cfg.Users,
		queue:  cfg.Queue,
		codec:  cfg.Codec,
		logger: cfg.Logger,
	}
}
