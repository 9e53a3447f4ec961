package user

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

// CreateVerificationCode inserts a new single-use code.
func (r *repository) CreateVerificationCode(ctx context.Context, code *VerificationCode) error {
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}

	query, args, err := r.psql.Insert("verification_codes").
		Columns("id", "user_id", "type", "created_at", "expires_at").
		Values(code.ID, code.UserID, string(code.Type), code.CreatedAt, code.ExpiresAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// FindValidVerificationCode retrieves a code by id and type, filtering out
// expired codes at the query level.
func (r *repository) FindValidVerificationCode(ctx context.Context, id string, codeType CodeType) (*VerificationCode, error) {
	query, args, err := r.psql.Select("id", "user_id", "type", "created_at", "expires_at").
		From("verification_codes").
		Where(squirrel.Eq{"id": id, "type": string(codeType)}).
		Where(squirrel.Gt{"expires_at": time.Now()}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var code VerificationCode
	if err := pgxscan.Get(ctx, r.db, &code, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &code, nil
}

// DeleteVerificationCode consumes a code. Codes are single use.
func (r *repository) DeleteVerificationCode(ctx context.Context, id string) error {
	query, args, err := r.psql.Delete("verification_codes").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// CountRecentVerificationCodes counts codes of the given type issued to a user
// since the given instant. Used to rate-limit password-reset emails.
func (r *repository) CountRecentVerificationCodes(ctx context.Context, userID string, codeType CodeType, since time.Time) (int, error) {
	query, args, err := r.psql.Select("COUNT(*)").
		From("verification_codes").
		Where(squirrel.Eq{"user_id": userID, "type": string(codeType)}).
		Where(squirrel.Gt{"created_at": since}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
