package user

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/safecity/backend/internal/database"
)

// Repository defines the interface for database operations for the user module.
// This abstraction allows the service layer to be independent of the database
// implementation.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id string) (*User, error)
	SetUserVerified(ctx context.Context, userID string) error
	UpdateUserPassword(ctx context.Context, userID string, newPasswordHash string) error

	// Sessions. A session whose expires_at has passed is treated as
	// nonexistent by every query; expiry is a filter, not a soft delete.
	CreateSession(ctx context.Context, sess *Session) error
	FindSessionByID(ctx context.Context, id string) (*Session, error)
	ExtendSession(ctx context.Context, id string, newExpiresAt time.Time) error
	DeleteSessionByID(ctx context.Context, id string) error
	DeleteUserSessionByID(ctx context.Context, userID, sessionID string) error
	DeleteSessionsForUser(ctx context.Context, userID string) error
	ListActiveSessionsForUser(ctx context.Context, userID string) ([]Session, error)

	// Verification codes
	CreateVerificationCode(ctx context.Context, code *VerificationCode) error
	FindValidVerificationCode(ctx context.Context, id string, codeType CodeType) (*VerificationCode, error)
	DeleteVerificationCode(ctx context.Context, id string) error
	CountRecentVerificationCodes(ctx context.Context, userID string, codeType CodeType, since time.Time) (int, error)
}

// repository implements the Repository interface using pgx and squirrel.
type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new user repository with the given database connection.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}
