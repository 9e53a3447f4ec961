package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SendForgotPasswordEmail issues a password reset code and mails the reset
// link. At most one code may be issued per PasswordResetWindow; a second
// request inside the window is rejected with ErrTooManyRequests. Unlike mail
// failures during registration, a failed reset mail is a hard error: without
// the link the flow is dead.
func (s *service) SendForgotPasswordEmail(ctx context.Context, email string) error {
	usr, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	recent, err := s.repo.CountRecentVerificationCodes(ctx, usr.ID, CodeTypePasswordReset, s.now().Add(-PasswordResetWindow))
	if err != nil {
		return fmt.Errorf("counting recent reset codes: %w", err)
	}
	if recent >= 1 {
		return ErrTooManyRequests
	}

	code := &VerificationCode{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    usr.ID,
		Type:      CodeTypePasswordReset,
		CreatedAt: s.now(),
		ExpiresAt: s.now().Add(PasswordResetTTL),
	}
	if err := s.repo.CreateVerificationCode(ctx, code); err != nil {
		return fmt.Errorf("creating reset code: %w", err)
	}

	resetURL := fmt.Sprintf("%s/auth/password/reset/%s", s.appOrigin, code.ID)
	id, err := s.mailer.SendPasswordReset(ctx, usr.Email, resetURL)
	if err != nil {
		return ErrInternal.WithCause(err)
	}
	if id == "" {
		return ErrInternal.WithCause(errors.New("mail dispatch returned no id"))
	}

	s.logger.Info("password reset email sent", "user_id", usr.ID, "dispatch_id", id)
	return nil
}

// ResetPassword consumes a reset code, replaces the password hash and revokes
// every session the user holds, forcing re-authentication everywhere.
func (s *service) ResetPassword(ctx context.Context, password, code string) error {
	vc, err := s.repo.FindValidVerificationCode(ctx, code, CodeTypePasswordReset)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidCode.WithCause(err)
		}
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.repo.UpdateUserPassword(ctx, vc.UserID, hash); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	if err := s.repo.DeleteVerificationCode(ctx, vc.ID); err != nil {
		return fmt.Errorf("consuming reset code: %w", err)
	}

	if err := s.repo.DeleteSessionsForUser(ctx, vc.UserID); err != nil {
		return fmt.Errorf("revoking sessions: %w", err)
	}

	s.logger.Info("password reset", "user_id", vc.UserID)
	return nil
}
