package user

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safecity/backend/internal/token"
)

// --- in-memory fakes ---

type fakeRepo struct {
	users    map[string]*User // by id
	sessions map[string]*Session
	codes    map[string]*VerificationCode
	now      func() time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    make(map[string]*User),
		sessions: make(map[string]*Session),
		codes:    make(map[string]*VerificationCode),
		now:      time.Now,
	}
}

func (f *fakeRepo) CreateUser(_ context.Context, u *User) error {
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeRepo) FindUserByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) FindUserByID(_ context.Context, id string) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) SetUserVerified(_ context.Context, userID string) error {
	u, ok := f.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.Verified = true
	return nil
}

func (f *fakeRepo) UpdateUserPassword(_ context.Context, userID, hash string) error {
	u, ok := f.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeRepo) CreateSession(_ context.Context, s *Session) error {
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeRepo) FindSessionByID(_ context.Context, id string) (*Session, error) {
	s, ok := f.sessions[id]
	if !ok || !s.ExpiresAt.After(f.now()) {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) ExtendSession(_ context.Context, id string, newExpiresAt time.Time) error {
	s, ok := f.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.ExpiresAt = newExpiresAt
	return nil
}

func (f *fakeRepo) DeleteSessionByID(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeRepo) DeleteUserSessionByID(_ context.Context, userID, sessionID string) error {
	s, ok := f.sessions[sessionID]
	if !ok || s.UserID != userID {
		return ErrNotFound
	}
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeRepo) DeleteSessionsForUser(_ context.Context, userID string) error {
	for id, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, id)
		}
	}
	return nil
}

func (f *fakeRepo) ListActiveSessionsForUser(_ context.Context, userID string) ([]Session, error) {
	var out []Session
	for _, s := range f.sessions {
		if s.UserID == userID && s.ExpiresAt.After(f.now()) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateVerificationCode(_ context.Context, c *VerificationCode) error {
	cp := *c
	f.codes[c.ID] = &cp
	return nil
}

func (f *fakeRepo) FindValidVerificationCode(_ context.Context, id string, codeType CodeType) (*VerificationCode, error) {
	c, ok := f.codes[id]
	if !ok || c.Type != codeType || !c.ExpiresAt.After(f.now()) {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) DeleteVerificationCode(_ context.Context, id string) error {
	delete(f.codes, id)
	return nil
}

func (f *fakeRepo) CountRecentVerificationCodes(_ context.Context, userID string, codeType CodeType, since time.Time) (int, error) {
	count := 0
	for _, c := range f.codes {
		if c.UserID == userID && c.Type == codeType && c.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

type fakeMailer struct {
	verifySent []string
	resetSent  []string
	dispatchID string
	err        error
}

func (m *fakeMailer) SendVerifyEmail(_ context.Context, to, _ string) (string, error) {
	m.verifySent = append(m.verifySent, to)
	return m.dispatchID, m.err
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, _ string) (string, error) {
	m.resetSent = append(m.resetSent, to)
	return m.dispatchID, m.err
}

// --- harness ---

type harness struct {
	repo   *fakeRepo
	mailer *fakeMailer
	tokens *token.Service
	svc    *service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	repo := newFakeRepo()
	mailer := &fakeMailer{dispatchID: "mail-1"}
	tokens := token.NewService([]byte("access"), []byte("refresh"))
	svc := NewService(&Config{
		Repo:      repo,
		Logger:    slog.New(slog.DiscardHandler),
		Tokens:    tokens,
		Mailer:    mailer,
		AppOrigin: "http://localhost:8080",
	}).(*service)
	return &harness{repo: repo, mailer: mailer, tokens: tokens, svc: svc}
}

func (h *harness) register(t *testing.T, email, password string) *User {
	t.Helper()
	usr, err := h.svc.Register(context.Background(), RegisterParams{
		Username: "citizen",
		Email:    email,
		Password: password,
		Role:     RoleUser,
	})
	require.NoError(t, err)
	return usr
}

// --- tests ---

func TestRegisterCreatesAccountCodeAndSession(t *testing.T) {
	h := newHarness(t)
	usr := h.register(t, "a@example.com", "password123")

	stored, err := h.repo.FindUserByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, stored.ID)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.False(t, stored.Verified)

	assert.Equal(t, []string{"a@example.com"}, h.mailer.verifySent)

	require.Len(t, h.repo.codes, 1)
	for _, c := range h.repo.codes {
		assert.Equal(t, CodeTypeEmailVerification, c.Type)
		assert.WithinDuration(t, time.Now().Add(EmailVerificationTTL), c.ExpiresAt, time.Minute)
	}

	require.Len(t, h.repo.sessions, 1)
	for _, s := range h.repo.sessions {
		assert.Equal(t, usr.ID, s.UserID)
		assert.WithinDuration(t, time.Now().Add(SessionTTL), s.ExpiresAt, time.Minute)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@example.com", "password123")

	_, err := h.svc.Register(context.Background(), RegisterParams{
		Username: "other",
		Email:    "a@example.com",
		Password: "password456",
		Role:     RoleUser,
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	h := newHarness(t)
	h.mailer.err = errors.New("smtp down")

	usr := h.register(t, "a@example.com", "password123")
	assert.NotEmpty(t, usr.ID)
	assert.Len(t, h.repo.sessions, 1)
}

func TestLoginEnumerationSafe(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@example.com", "password123")

	_, _, _, errUnknown := h.svc.Login(context.Background(), "nobody@example.com", "whatever", nil)
	_, _, _, errWrongPw := h.svc.Login(context.Background(), "a@example.com", "wrong-password", nil)

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	// Identical error values leak nothing about which address exists.
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestLoginIssuesSessionBoundTokens(t *testing.T) {
	h := newHarness(t)
	usr := h.register(t, "a@example.com", "password123")

	got, access, refresh, err := h.svc.Login(context.Background(), "a@example.com", "password123", nil)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	accessClaims, err := h.tokens.VerifyAccessToken(access)
	require.NoError(t, err)
	refreshClaims, err := h.tokens.VerifyRefreshToken(refresh)
	require.NoError(t, err)

	assert.Equal(t, usr.ID, accessClaims.UserID)
	assert.Equal(t, string(RoleUser), accessClaims.Role)
	assert.Equal(t, accessClaims.SessionID, refreshClaims.SessionID)

	_, err = h.repo.FindSessionByID(context.Background(), accessClaims.SessionID)
	assert.NoError(t, err)
}

func TestLogoutRevokesSessionWithoutVerification(t *testing.T) {
	h := newHarness(t)
	usr := h.register(t, "a@example.com", "password123")

	sess := &Session{ID: "sess-old", UserID: usr.ID, ExpiresAt: time.Now().Add(SessionTTL)}
	require.NoError(t, h.repo.CreateSession(context.Background(), sess))

	// Sign with a different secret: verification would reject this token,
	// but logout only decodes it.
	forged := token.NewService([]byte("some-other-secret"), []byte("unused"))
	signed, err := forged.SignAccessToken(usr.ID, sess.ID, string(RoleUser))
	require.NoError(t, err)

	h.svc.Logout(context.Background(), signed)
	_, err = h.repo.FindSessionByID(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogoutIgnoresGarbageToken(t *testing.T) {
	h := newHarness(t)
	h.svc.Logout(context.Background(), "not-a-token")
}

func TestRefreshRejectsInvalidToken(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.svc.RefreshAccessToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshRejectsExpiredSession(t *testing.T) {
	h := newHarness(t)
	usr := h.register(t, "a@example.com", "password123")

	sess := &Session{ID: "sess-dead", UserID: usr.ID, ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, h.repo.CreateSession(context.Background(), sess))
	refresh, err := h.tokens.SignRefreshToken(sess.ID)
	require.NoError(t, err)

	_, _, err = h.svc.RefreshAccessToken(context.Background(), refresh)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshRotatesOnlyNearExpiry(t *testing.T) {
	h := newHarness(t)
	usr := h.register(t, "a@example.com", "password123")

	// Plenty of life left: no rotation, no new refresh token.
	fresh := &Session{ID: "sess-fresh", UserID: usr.ID, ExpiresAt: time.Now().Add(10 * 24 * time.Hour)}
	require.NoError(t, h.repo.CreateSession(context.Background(), fresh))
	refreshToken, err := h.tokens.SignRefreshToken(fresh.ID)
	require.NoError(t, err)

	access, newRefresh, err := h.svc.RefreshAccessToken(context.Background(), refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.Empty(t, newRefresh)

	// Under a day left: session is extended and a new refresh token issued.
	stale := &Session{ID: "sess-stale", UserID: usr.ID, ExpiresAt: time.Now().Add(2 * time.Hour)}
	require.NoError(t, h.repo.CreateSession(context.Background(), stale))
	staleToken, err := h.tokens.SignRefreshToken(stale.ID)
	require.NoError(t, err)

	access, newRefresh, err = h.svc.RefreshAccessToken(context.Background(), staleToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	require.NotEmpty(t, newRefresh)

	rotated, err := h.tokens.VerifyRefreshToken(newRefresh)
	require.NoError(t, err)
	assert.Equal(t, stale.ID, rotated.SessionID)

	extended, err := h.repo.FindSessionByID(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(SessionTTL), extended.ExpiresAt, time.Minute)

	claims, err := h.tokens.VerifyAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, string(usr.Role), claims.Role)
}

func TestVerifyEmailConsumesCode(t *testing.T) {
	h := newHarness(t)
	usr := h.register(t, "a@example.com", "password123")

	var codeID string
	for id := range h.repo.codes {
		codeID = id
	}

	require.NoError(t, h.svc.VerifyEmail(context.Background(), codeID))

	verified, err := h.repo.FindUserByID(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.True(t, verified.Verified)

	// Codes are single use.
	err = h.svc.VerifyEmail(context.Background(), codeID)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyEmailUnknownCode(t *testing.T) {
	h := newHarness(t)
	err := h.svc.VerifyEmail(context.Background(), "no-such-code")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	h := newHarness(t)
	err := h.svc.SendForgotPasswordEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestForgotPasswordRateLimited(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@example.com", "password123")

	require.NoError(t, h.svc.SendForgotPasswordEmail(context.Background(), "a@example.com"))
	assert.Len(t, h.mailer.resetSent, 1)

	// A second request inside the 5 minute window is rejected.
	err := h.svc.SendForgotPasswordEmail(context.Background(), "a@example.com")
	assert.ErrorIs(t, err, ErrTooManyRequests)
	assert.Len(t, h.mailer.resetSent, 1)
}

func TestForgotPasswordRequiresDispatchID(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@example.com", "password123")
	h.mailer.dispatchID = ""

	err := h.svc.SendForgotPasswordEmail(context.Background(), "a@example.com")
	assert.ErrorIs(t, err, ErrInternal)
}

func TestResetPasswordRevokesAllSessions(t *testing.T) {
	h := newHarness(t)
	usr := h.register(t, "a@example.com", "old-password")
	_, _, _, err := h.svc.Login(context.Background(), "a@example.com", "old-password", nil)
	require.NoError(t, err)
	require.Len(t, h.repo.sessions, 2)

	code := &VerificationCode{
		ID:        "reset-1",
		UserID:    usr.ID,
		Type:      CodeTypePasswordReset,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(PasswordResetTTL),
	}
	require.NoError(t, h.repo.CreateVerificationCode(context.Background(), code))

	require.NoError(t, h.svc.ResetPassword(context.Background(), "new-password", code.ID))

	// Every session is gone and only the new password works.
	assert.Empty(t, h.repo.sessions)
	_, _, _, err = h.svc.Login(context.Background(), "a@example.com", "old-password", nil)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, _, err = h.svc.Login(context.Background(), "a@example.com", "new-password", nil)
	assert.NoError(t, err)

	// The code was consumed.
	err = h.svc.ResetPassword(context.Background(), "another", code.ID)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestResetPasswordRejectsWrongCodeType(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@example.com", "password123")

	var verifyCode string
	for id := range h.repo.codes {
		verifyCode = id
	}

	err := h.svc.ResetPassword(context.Background(), "new-password", verifyCode)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestDeleteSessionEnforcesOwnership(t *testing.T) {
	h := newHarness(t)
	usr := h.register(t, "a@example.com", "password123")
	other := h.register(t, "b@example.com", "password123")

	var usrSession string
	for id, s := range h.repo.sessions {
		if s.UserID == usr.ID {
			usrSession = id
		}
	}
	require.NotEmpty(t, usrSession)

	err := h.svc.DeleteSession(context.Background(), other.ID, usrSession)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, h.svc.DeleteSession(context.Background(), usr.ID, usrSession))
}

func TestRoleOrdering(t *testing.T) {
	assert.True(t, RoleAdmin.Allows(RolePolicy))
	assert.True(t, RoleAdmin.Allows(RoleUser))
	assert.True(t, RolePolicy.Allows(RoleUser))
	assert.False(t, RoleUser.Allows(RolePolicy))
	assert.False(t, RolePolicy.Allows(RoleAdmin))
	assert.False(t, Role("BOGUS").Allows(RoleUser))

	role, ok := ParseRole("")
	assert.True(t, ok)
	assert.Equal(t, RoleUser, role)
	_, ok = ParseRole("SUPERUSER")
	assert.False(t, ok)
}
