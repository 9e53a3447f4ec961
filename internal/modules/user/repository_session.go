package user

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

// CreateSession inserts a new session record into the database.
func (r *repository) CreateSession(ctx context.Context, sess *Session) error {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}

	query, args, err := r.psql.Insert("sessions").
		Columns("id", "user_id", "user_agent", "created_at", "expires_at").
		Values(sess.ID, sess.UserID, sess.UserAgent, sess.CreatedAt, sess.ExpiresAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// FindSessionByID retrieves an unexpired session. Expired sessions are
// filtered out in the query so callers never see them.
func (r *repository) FindSessionByID(ctx context.Context, id string) (*Session, error) {
	query, args, err := r.psql.Select("id", "user_id", "user_agent", "created_at", "expires_at").
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Gt{"expires_at": time.Now()}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := pgxscan.Get(ctx, r.db, &sess, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &sess, nil
}

// ExtendSession rotates the session expiry in place; the id does not change.
func (r *repository) ExtendSession(ctx context.Context, id string, newExpiresAt time.Time) error {
	query, args, err := r.psql.Update("sessions").
		Set("expires_at", newExpiresAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSessionByID removes a session. It is idempotent.
func (r *repository) DeleteSessionByID(ctx context.Context, id string) error {
	query, args, err := r.psql.Delete("sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// DeleteUserSessionByID removes a session only when it belongs to the given
// user. Returns ErrNotFound when nothing was deleted.
func (r *repository) DeleteUserSessionByID(ctx context.Context, userID, sessionID string) error {
	query, args, err := r.psql.Delete("sessions").
		Where(squirrel.Eq{"id": sessionID, "user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSessionsForUser revokes every session the user owns.
func (r *repository) DeleteSessionsForUser(ctx context.Context, userID string) error {
	query, args, err := r.psql.Delete("sessions").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// ListActiveSessionsForUser returns the user's unexpired sessions, newest first.
func (r *repository) ListActiveSessionsForUser(ctx context.Context, userID string) ([]Session, error) {
	query, args, err := r.psql.Select("id", "user_id", "user_agent", "created_at", "expires_at").
		From("sessions").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Gt{"expires_at": time.Now()}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var sessions []Session
	if err := pgxscan.Select(ctx, r.db, &sessions, query, args...); err != nil {
		return nil, err
	}
	return sessions, nil
}
