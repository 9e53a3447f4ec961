package chat

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

const chatColumns = "id, is_anonymous, status, user_id, officer_id, created_at, updated_at"

// CreateChat inserts a new chat record.
func (r *repository) CreateChat(ctx context.Context, c *Chat) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = StatusOpen
	}

	query, args, err := r.psql.Insert("chats").
		Columns("id", "is_anonymous", "status", "user_id", "officer_id", "created_at", "updated_at").
		Values(c.ID, c.IsAnonymous, string(c.Status), c.UserID, c.OfficerID, c.CreatedAt, c.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// FindChatByID retrieves a chat by its id. Returns ErrNotFound when absent.
func (r *repository) FindChatByID(ctx context.Context, id string) (*Chat, error) {
	query, args, err := r.psql.Select(chatColumns).
		From("chats").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var c Chat
	if err := pgxscan.Get(ctx, r.db, &c, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &c, nil
}

// AssignOfficer sets the officer and moves the chat to IN_PROGRESS in a single
// conditional UPDATE. When zero rows match, the follow-up read distinguishes a
// missing chat from a closed one.
func (r *repository) AssignOfficer(ctx context.Context, chatID, officerID string) (*Chat, error) {
	query, args, err := r.psql.Update("chats").
		Set("officer_id", officerID).
		Set("status", string(StatusInProgress)).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": chatID}).
		Where(squirrel.Eq{"status": []string{string(StatusOpen), string(StatusInProgress)}}).
		ToSql()
	if err != nil {
		return nil, err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		if _, err := r.FindChatByID(ctx, chatID); err != nil {
			return nil, err
		}
		return nil, ErrChatClosed
	}

	return r.FindChatByID(ctx, chatID)
}

// AssignUser attaches a requester to the chat.
func (r *repository) AssignUser(ctx context.Context, chatID, userID string) (*Chat, error) {
	query, args, err := r.psql.Update("chats").
		Set("user_id", userID).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": chatID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return r.FindChatByID(ctx, chatID)
}

// ListPendingChats returns non-closed chats, newest first, optionally scoped
// to one requester.
func (r *repository) ListPendingChats(ctx context.Context, forUserID *string) ([]Chat, error) {
	builder := r.psql.Select(chatColumns).
		From("chats").
		Where(squirrel.NotEq{"status": string(StatusClosed)}).
		OrderBy("created_at DESC")
	if forUserID != nil {
		builder = builder.Where(squirrel.Eq{"user_id": *forUserID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var chats []Chat
	if err := pgxscan.Select(ctx, r.db, &chats, query, args...); err != nil {
		return nil, err
	}
	return chats, nil
}
