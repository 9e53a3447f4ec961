package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Register creates a user, issues an email verification code, sends the
// verification mail and opens an initial session. A mail delivery failure is
// logged but does not fail registration; the user can request a fresh link.
func (s *service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	if _, err := s.repo.FindUserByEmail(ctx, params.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	usr := &User{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		PhoneNumber:  params.PhoneNumber,
		Address:      params.Address,
		City:         params.City,
		Region:       params.Region,
		Role:         params.Role,
	}
	if err := s.repo.CreateUser(ctx, usr); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	code := &VerificationCode{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    usr.ID,
		Type:      CodeTypeEmailVerification,
		CreatedAt: s.now(),
		ExpiresAt: s.now().Add(EmailVerificationTTL),
	}
	if err := s.repo.CreateVerificationCode(ctx, code); err != nil {
		return nil, fmt.Errorf("creating verification code: %w", err)
	}

	verifyURL := fmt.Sprintf("%s/auth/email/verify/%s", s.appOrigin, code.ID)
	if _, err := s.mailer.SendVerifyEmail(ctx, usr.Email, verifyURL); err != nil {
		s.logger.Error("failed to send verification email", "error", err, "user_id", usr.ID)
	}

	sess := &Session{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    usr.ID,
		UserAgent: params.UserAgent,
		CreatedAt: s.now(),
		ExpiresAt: s.now().Add(SessionTTL),
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return usr, nil
}

// Login authenticates a user by email and password. It deliberately returns
// the same error for an unknown email and a wrong password so that the
// endpoint cannot be used to probe which addresses have accounts. On success
// it opens a new session and returns the user with fresh access and refresh
// tokens.
func (s *service) Login(ctx context.Context, email, password string, userAgent *string) (*User, string, string, error) {
	usr, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}

	if !checkPasswordHash(password, usr.PasswordHash) {
		return nil, "", "", ErrInvalidCredentials
	}

	sess := &Session{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    usr.ID,
		UserAgent: userAgent,
		CreatedAt: s.now(),
		ExpiresAt: s.now().Add(SessionTTL),
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, "", "", fmt.Errorf("creating session: %w", err)
	}

	accessToken, err := s.tokens.SignAccessToken(usr.ID, sess.ID, string(usr.Role))
	if err != nil {
		return nil, "", "", fmt.Errorf("signing access token: %w", err)
	}
	refreshToken, err := s.tokens.SignRefreshToken(sess.ID)
	if err != nil {
		return nil, "", "", fmt.Errorf("signing refresh token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", usr.ID, "session_id", sess.ID)
	return usr, accessToken, refreshToken, nil
}

// Logout revokes the session referenced by the access token. The token is
// decoded without verification so that an expired token can still end its
// session; a token that cannot be decoded at all is ignored. Logout never
// fails: the handler clears the cookies regardless.
func (s *service) Logout(ctx context.Context, accessToken string) {
	claims, err := s.tokens.DecodeAccessToken(accessToken)
	if err != nil || claims.SessionID == "" {
		return
	}
	if err := s.repo.DeleteSessionByID(ctx, claims.SessionID); err != nil {
		s.logger.Error("failed to delete session on logout", "error", err, "session_id", claims.SessionID)
	}
}

// RefreshAccessToken exchanges a valid refresh token for a new access token.
// When the backing session has less than SessionRefreshWindow of life left it
// is rotated: its expiry is pushed out to a full SessionTTL and a new refresh
// token is returned alongside the access token. Otherwise the returned
// refresh token is empty and the caller keeps using the current one.
func (s *service) RefreshAccessToken(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", "", ErrUnauthorized.WithCause(err)
	}

	sess, err := s.repo.FindSessionByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", "", ErrUnauthorized.WithCause(err)
		}
		return "", "", err
	}

	usr, err := s.repo.FindUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", "", ErrUnauthorized.WithCause(err)
		}
		return "", "", err
	}

	var newRefreshToken string
	if sess.ExpiresAt.Sub(s.now()) < SessionRefreshWindow {
		if err := s.repo.ExtendSession(ctx, sess.ID, s.now().Add(SessionTTL)); err != nil {
			return "", "", fmt.Errorf("extending session: %w", err)
		}
		newRefreshToken, err = s.tokens.SignRefreshToken(sess.ID)
		if err != nil {
			return "", "", fmt.Errorf("signing refresh token: %w", err)
		}
	}

	accessToken, err := s.tokens.SignAccessToken(usr.ID, sess.ID, string(usr.Role))
	if err != nil {
		return "", "", fmt.Errorf("signing access token: %w", err)
	}

	return accessToken, newRefreshToken, nil
}
