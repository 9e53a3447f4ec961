package user

import (
	"context"
	"errors"
	"fmt"
)

// VerifyEmail consumes an email verification code and marks the account
// verified. Unknown, expired or wrong-type codes all surface as ErrInvalidCode.
func (s *service) VerifyEmail(ctx context.Context, code string) error {
	vc, err := s.repo.FindValidVerificationCode(ctx, code, CodeTypeEmailVerification)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidCode.WithCause(err)
		}
		return err
	}

	if err := s.repo.SetUserVerified(ctx, vc.UserID); err != nil {
		return fmt.Errorf("marking user verified: %w", err)
	}

	if err := s.repo.DeleteVerificationCode(ctx, vc.ID); err != nil {
		return fmt.Errorf("consuming verification code: %w", err)
	}

	s.logger.Info("email verified", "user_id", vc.UserID)
	return nil
}
