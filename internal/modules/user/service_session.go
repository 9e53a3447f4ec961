package user

import (
	"context"
)

// GetProfile returns the account behind an authenticated principal.
func (s *service) GetProfile(ctx context.Context, userID string) (*User, error) {
	return s.repo.FindUserByID(ctx, userID)
}

// ListSessions returns the user's active sessions, flagging the one backing
// the current request.
func (s *service) ListSessions(ctx context.Context, userID, currentSessionID string) ([]SessionInfo, error) {
	sessions, err := s.repo.ListActiveSessionsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	infos := make([]SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		infos = append(infos, SessionInfo{
			ID:        sess.ID,
			UserAgent: sess.UserAgent,
			CreatedAt: sess.CreatedAt,
			IsCurrent: sess.ID == currentSessionID,
		})
	}
	return infos, nil
}

// DeleteSession revokes one of the user's own sessions. Ownership is enforced
// in the query so a user can never revoke someone else's session.
func (s *service) DeleteSession(ctx context.Context, userID, sessionID string) error {
	return s.repo.DeleteUserSessionByID(ctx, userID, sessionID)
}
