package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/safecity/backend/internal/modules/user"
)

// CreateChat opens a chat and enqueues it for officers. An anonymous chat
// drops the user id even when one is supplied, so the stored record carries
// no link back to the account.
func (s *service) CreateChat(ctx context.Context, userID *string, isAnonymous bool) (*Chat, error) {
	if isAnonymous {
		userID = nil
	} else if userID != nil {
		if _, err := s.users.FindUserByID(ctx, *userID); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return nil, ErrUserNotFound.WithCause(err)
			}
			return nil, err
		}
	}

	c := &Chat{
		ID:          uuid.Must(uuid.NewV7()).String(),
		IsAnonymous: isAnonymous,
		Status:      StatusOpen,
		UserID:      userID,
	}
	if err := s.repo.CreateChat(ctx, c); err != nil {
		return nil, fmt.Errorf("creating chat: %w", err)
	}

	// A queue failure must not lose the chat itself; officers can still
	// find it through the pending list.
	if err := s.queue.Push(ctx, c.ID); err != nil {
		s.logger.Error("failed to enqueue pending chat", "error", err, "chat_id", c.ID)
	}

	return c, nil
}

// SendMessage encrypts the text and persists it. The plaintext never reaches
// the database.
func (s *service) SendMessage(ctx context.Context, chatID string, senderID *string, text string) (*MessageView, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	c, err := s.repo.FindChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	// Messages in an anonymous chat are stored senderless so the
	// conversation cannot be tied back to an account.
	if c.IsAnonymous {
		senderID = nil
	}

	ciphertext, err := s.codec.Encrypt(text)
	if err != nil {
		return nil, fmt.Errorf("encrypting message: %w", err)
	}

	m := &Message{
		ID:       uuid.Must(uuid.NewV7()).String(),
		ChatID:   c.ID,
		Text:     ciphertext,
		SenderID: senderID,
	}
	if err := s.repo.CreateMessage(ctx, m); err != nil {
		return nil, fmt.Errorf("persisting message: %w", err)
	}

	return &MessageView{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Text:      text,
		SenderID:  m.SenderID,
		CreatedAt: m.CreatedAt,
	}, nil
}

// JoinAsOfficer assigns the officer and moves the chat to IN_PROGRESS. Only
// POLICY-level accounts may join; a CLOSED chat is a conflict. The chat is
// removed from the pending queue on success.
func (s *service) JoinAsOfficer(ctx context.Context, chatID, officerID string, role user.Role) (*Chat, error) {
	if !role.Allows(user.RolePolicy) {
		return nil, ErrForbidden
	}

	c, err := s.repo.AssignOfficer(ctx, chatID, officerID)
	if err != nil {
		return nil, err
	}

	if err := s.queue.Remove(ctx, c.ID); err != nil {
		s.logger.Error("failed to dequeue joined chat", "error", err, "chat_id", c.ID)
	}

	return c, nil
}

// JoinAsRequester attaches the calling user as the chat's requester.
func (s *service) JoinAsRequester(ctx context.Context, chatID, userID string) (*Chat, error) {
	return s.repo.AssignUser(ctx, chatID, userID)
}

// Claim pops the oldest waiting chat and joins it as the officer.
func (s *service) Claim(ctx context.Context, officerID string, role user.Role) (*Chat, error) {
	if !role.Allows(user.RolePolicy) {
		return nil, ErrForbidden
	}

	chatID, err := s.queue.Pop(ctx)
	if err != nil {
		return nil, fmt.Errorf("popping pending queue: %w", err)
	}
	if chatID == "" {
		return nil, ErrQueueEmpty
	}

	return s.repo.AssignOfficer(ctx, chatID, officerID)
}

// ListPending returns chats awaiting or under handling.
func (s *service) ListPending(ctx context.Context, forUserID *string) ([]Chat, error) {
	return s.repo.ListPendingChats(ctx, forUserID)
}

// Access loads the chat and checks the user may participate: the requester or
// the assigned officer. Chats without a recorded requester (anonymous ones)
// are readable by any authenticated principal, since the creator left no id
// to match against.
func (s *service) Access(ctx context.Context, chatID, userID string) (*Chat, error) {
	c, err := s.repo.FindChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if c.UserID == nil || c.Participant(userID) {
		return c, nil
	}
	return nil, ErrForbidden
}

// History returns the decrypted conversation, oldest first. A message that
// fails to decrypt is skipped and logged rather than poisoning the whole
// replay.
func (s *service) History(ctx context.Context, chatID, userID string) ([]MessageView, error) {
	c, err := s.Access(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}

	messages, err := s.repo.ListMessagesByChat(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		text, err := s.codec.Decrypt(m.Text)
		if err != nil {
			s.logger.Error("failed to decrypt message", "error", err, "message_id", m.ID)
			continue
		}
		views = append(views, MessageView{
			ID:        m.ID,
			ChatID:    m.ChatID,
			Text:      text,
			SenderID:  m.SenderID,
			CreatedAt: m.CreatedAt,
		})
	}
	return views, nil
}

// QueueLen reports the pending queue depth.
func (s *service) QueueLen(ctx context.Context) (int64, error) {
	return s.queue.Len(ctx)
}
