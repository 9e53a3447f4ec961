package chat

import (
	"time"
)

// Status is the lifecycle state of a chat. The only legal transitions are
// OPEN → IN_PROGRESS (an officer joins) and IN_PROGRESS → CLOSED.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusClosed     Status = "CLOSED"
)

// Chat is a conversation between a requester and, once assigned, an officer.
// Anonymous chats never carry a user id, even when the creator was logged in.
type Chat struct {
	ID          string    `db:"id"`
	IsAnonymous bool      `db:"is_anonymous"`
	Status      Status    `db:"status"`
	UserID      *string   `db:"user_id"`
	OfficerID   *string   `db:"officer_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Participant reports whether the given user is the chat's requester or its
// assigned officer.
func (c *Chat) Participant(userID string) bool {
	if c.UserID != nil && *c.UserID == userID {
		return true
	}
	if c.OfficerID != nil && *c.OfficerID == userID {
		return true
	}
	return false
}

// View is the JSON shape of a chat as exposed to clients.
type View struct {
	ID          string    `json:"id"`
	IsAnonymous bool      `json:"isAnonymous"`
	Status      Status    `json:"status"`
	UserID      *string   `json:"userId,omitempty"`
	OfficerID   *string   `json:"officerId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// View converts the chat to its client-facing shape.
func (c *Chat) View() View {
	return View{
		ID:          c.ID,
		IsAnonymous: c.IsAnonymous,
		Status:      c.Status,
		UserID:      c.UserID,
		OfficerID:   c.OfficerID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// Message is a chat message as persisted: Text holds the ciphertext in
// iv:ciphertext hex form, never plaintext.
type Message struct {
	ID        string    `db:"id"`
	ChatID    string    `db:"chat_id"`
	Text      string    `db:"text"`
	SenderID  *string   `db:"sender_id"`
	CreatedAt time.Time `db:"created_at"`
}

// MessageView is a decrypted message as exposed to clients.
type MessageView struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatId"`
	Text      string    `json:"text"`
	SenderID  *string   `json:"senderId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
