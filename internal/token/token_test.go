package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(now time.Time) *Service {
	s := NewService([]byte("access-secret"), []byte("refresh-secret"))
	s.now = func() time.Time { return now }
	return s
}

func TestAccessTokenRoundTrip(t *testing.T) {
	now := time.Now()
	s := newTestService(now)

	signed, err := s.SignAccessToken("user-1", "sess-1", "POLICY")
	require.NoError(t, err)

	claims, err := s.VerifyAccessToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "POLICY", claims.Role)
	assert.Contains(t, claims.Audience, Audience)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	s := newTestService(time.Now())

	signed, err := s.SignRefreshToken("sess-9")
	require.NoError(t, err)

	claims, err := s.VerifyRefreshToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "sess-9", claims.SessionID)
}

func TestAccessTokenExpiry(t *testing.T) {
	s := newTestService(time.Now())

	signed, err := s.SignAccessToken("user-1", "sess-1", "USER")
	require.NoError(t, err)

	// Verification happens just past the 60 minute TTL.
	s.now = func() time.Time { return time.Now().Add(AccessTokenTTL + time.Minute) }

	_, err = s.VerifyAccessToken(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSecretIsolation(t *testing.T) {
	s := newTestService(time.Now())

	access, err := s.SignAccessToken("user-1", "sess-1", "USER")
	require.NoError(t, err)
	refresh, err := s.SignRefreshToken("sess-1")
	require.NoError(t, err)

	// A token of one kind never verifies as the other.
	_, err = s.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = s.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// A token signed with a different secret is rejected.
	other := NewService([]byte("other-secret"), []byte("other-refresh"))
	forged, err := other.SignAccessToken("user-1", "sess-1", "ADMIN")
	require.NoError(t, err)
	_, err = s.VerifyAccessToken(forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	s := newTestService(time.Now())

	_, err := s.VerifyAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDecodeAccessTokenIgnoresExpiry(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	s := newTestService(past)

	signed, err := s.SignAccessToken("user-1", "sess-1", "USER")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.VerifyAccessToken(signed)
	require.ErrorIs(t, err, ErrTokenExpired)

	claims, err := s.DecodeAccessToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
}
