package chat

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

// CreateMessage inserts a message; Text must already be encrypted.
func (r *repository) CreateMessage(ctx context.Context, m *Message) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	query, args, err := r.psql.Insert("messages").
		Columns("id", "chat_id", "text", "sender_id", "created_at").
		Values(m.ID, m.ChatID, m.Text, m.SenderID, m.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// ListMessagesByChat returns the chat's messages oldest first, the order a
// client replays history in.
func (r *repository) ListMessagesByChat(ctx context.Context, chatID string) ([]Message, error) {
	query, args, err := r.psql.Select("id", "chat_id", "text", "sender_id", "created_at").
		From("messages").
		Where(squirrel.Eq{"chat_id": chatID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var messages []Message
	if err := pgxscan.Select(ctx, r.db, &messages, query, args...); err != nil {
		return nil, err
	}
	return messages, nil
}
