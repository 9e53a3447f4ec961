package user

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

const userColumns = "id, username, email, password_hash, first_name, last_name, phone_number, address, city, region, role, verified, created_at, updated_at"

// CreateUser inserts a new user record into the database.
func (r *repository) CreateUser(ctx context.Context, user *User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query, args, err := r.psql.Insert("users").
		Columns("id", "username", "email", "password_hash", "first_name", "last_name",
			"phone_number", "address", "city", "region", "role", "verified", "created_at", "updated_at").
		Values(user.ID, user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName,
			user.PhoneNumber, user.Address, user.City, user.Region, string(user.Role), user.Verified, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// FindUserByEmail retrieves a user by their email address.
// It returns ErrNotFound if no user is found.
func (r *repository) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.findUser(ctx, squirrel.Eq{"email": email})
}

// FindUserByID retrieves a user by their unique ID.
// It returns ErrNotFound if no user is found.
func (r *repository) FindUserByID(ctx context.Context, id string) (*User, error) {
	return r.findUser(ctx, squirrel.Eq{"id": id})
}

func (r *repository) findUser(ctx context.Context, condition squirrel.Sqlizer) (*User, error) {
	query, args, err := r.psql.Select(userColumns).
		From("users").
		Where(condition).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var user User
	if err := pgxscan.Get(ctx, r.db, &user, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &user, nil
}

// SetUserVerified marks the user's email as verified.
func (r *repository) SetUserVerified(ctx context.Context, userID string) error {
	query, args, err := r.psql.Update("users").
		Set("verified", true).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
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

// UpdateUserPassword sets a new password hash for a user.
func (r *repository) UpdateUserPassword(ctx context.Context, userID string, newPasswordHash string) error {
	query, args, err := r.psql.Update("users").
		Set("password_hash", newPasswordHash).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
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
