package chat

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safecity/backend/internal/cryptox"
	"github.com/safecity/backend/internal/modules/user"
)

// --- in-memory fakes ---

type fakeRepo struct {
	chats    map[string]*Chat
	messages map[string][]Message
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		chats:    make(map[string]*Chat),
		messages: make(map[string][]Message),
	}
}

func (f *fakeRepo) CreateChat(_ context.Context, c *Chat) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = StatusOpen
	}
	cp := *c
	f.chats[c.ID] = &cp
	return nil
}

func (f *fakeRepo) FindChatByID(_ context.Context, id string) (*Chat, error) {
	c, ok := f.chats[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) AssignOfficer(_ context.Context, chatID, officerID string) (*Chat, error) {
	c, ok := f.chats[chatID]
	if !ok {
		return nil, ErrNotFound
	}
	if c.Status == StatusClosed {
		return nil, ErrChatClosed
	}
	c.OfficerID = &officerID
	c.Status = StatusInProgress
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) AssignUser(_ context.Context, chatID, userID string) (*Chat, error) {
	c, ok := f.chats[chatID]
	if !ok {
		return nil, ErrNotFound
	}
	c.UserID = &userID
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) ListPendingChats(_ context.Context, forUserID *string) ([]Chat, error) {
	var out []Chat
	for _, c := range f.chats {
		if c.Status == StatusClosed {
			continue
		}
		if forUserID != nil && (c.UserID == nil || *c.UserID != *forUserID) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeRepo) CreateMessage(_ context.Context, m *Message) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	f.messages[m.ChatID] = append(f.messages[m.ChatID], *m)
	return nil
}

func (f *fakeRepo) ListMessagesByChat(_ context.Context, chatID string) ([]Message, error) {
	return f.messages[chatID], nil
}

type fakeUsers struct {
	known map[string]bool
}

func (f *fakeUsers) FindUserByID(_ context.Context, id string) (*user.User, error) {
	if !f.known[id] {
		return nil, user.ErrNotFound
	}
	return &user.User{ID: id, Role: user.RoleUser}, nil
}

type fakeQueue struct {
	ids []string
}

func (q *fakeQueue) Push(_ context.Context, chatID string) error {
	q.ids = append([]string{chatID}, q.ids...)
	return nil
}

func (q *fakeQueue) Pop(_ context.Context) (string, error) {
	if len(q.ids) == 0 {
		return "", nil
	}
	last := q.ids[len(q.ids)-1]
	q.ids = q.ids[:len(q.ids)-1]
	return last, nil
}

func (q *fakeQueue) Remove(_ context.Context, chatID string) error {
	out := q.ids[:0]
	for _, id := range q.ids {
		if id != chatID {
			out = append(out, id)
		}
	}
	q.ids = out
	return nil
}

func (q *fakeQueue) Len(_ context.Context) (int64, error) {
	return int64(len(q.ids)), nil
}

// --- harness ---

type harness struct {
	repo  *fakeRepo
	users *fakeUsers
	queue *fakeQueue
	codec *cryptox.Codec
	svc   Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	codec, err := cryptox.NewCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	repo := newFakeRepo()
	users := &fakeUsers{known: map[string]bool{"citizen-1": true, "officer-1": true}}
	queue := &fakeQueue{}
	svc := NewService(&Config{
		Repo:   repo,
		Users:  users,
		Queue:  queue,
		Codec:  codec,
		Logger: slog.New(slog.DiscardHandler),
	})
	return &harness{repo: repo, users: users, queue: queue, codec: codec, svc: svc}
}

func strptr(s string) *string { return &s }

// --- tests ---

func TestCreateChatAnonymousDetachesUser(t *testing.T) {
	h := newHarness(t)

	c, err := h.svc.CreateChat(context.Background(), strptr("citizen-1"), true)
	require.NoError(t, err)
	assert.True(t, c.IsAnonymous)
	assert.Nil(t, c.UserID)
	assert.Equal(t, StatusOpen, c.Status)
	assert.Equal(t, []string{c.ID}, h.queue.ids)
}

func TestCreateChatUnknownUser(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.CreateChat(context.Background(), strptr("ghost"), false)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateChatKeepsRequester(t *testing.T) {
	h := newHarness(t)

	c, err := h.svc.CreateChat(context.Background(), strptr("citizen-1"), false)
	require.NoError(t, err)
	require.NotNil(t, c.UserID)
	assert.Equal(t, "citizen-1", *c.UserID)
}

func TestSendMessageEncryptsAtRest(t *testing.T) {
	h := newHarness(t)
	c, err := h.svc.CreateChat(context.Background(), strptr("citizen-1"), false)
	require.NoError(t, err)

	view, err := h.svc.SendMessage(context.Background(), c.ID, strptr("citizen-1"), "help needed")
	require.NoError(t, err)
	assert.Equal(t, "help needed", view.Text)
	require.NotNil(t, view.SenderID)
	assert.Equal(t, "citizen-1", *view.SenderID)

	stored := h.repo.messages[c.ID]
	require.Len(t, stored, 1)
	assert.NotEqual(t, "help needed", stored[0].Text)

	plaintext, err := h.codec.Decrypt(stored[0].Text)
	require.NoError(t, err)
	assert.Equal(t, "help needed", plaintext)
}

func TestSendMessageValidation(t *testing.T) {
	h := newHarness(t)
	c, err := h.svc.CreateChat(context.Background(), strptr("citizen-1"), false)
	require.NoError(t, err)

	_, err = h.svc.SendMessage(context.Background(), c.ID, strptr("citizen-1"), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = h.svc.SendMessage(context.Background(), "no-such-chat", strptr("citizen-1"), "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnonymousChatMessagesAreSenderless(t *testing.T) {
	h := newHarness(t)
	c, err := h.svc.CreateChat(context.Background(), strptr("citizen-1"), true)
	require.NoError(t, err)

	view, err := h.svc.SendMessage(context.Background(), c.ID, strptr("citizen-1"), "anonymous tip")
	require.NoError(t, err)
	assert.Nil(t, view.SenderID)
	assert.Nil(t, h.repo.messages[c.ID][0].SenderID)
}

func TestJoinAsOfficerRequiresPolicyRole(t *testing.T) {
	h := newHarness(t)
	c, err := h.svc.CreateChat(context.Background(), strptr("citizen-1"), false)
	require.NoError(t, err)

	_, err = h.svc.JoinAsOfficer(context.Background(), c.ID, "citizen-1", user.RoleUser)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestJoinAsOfficerConflictsOnClosed(t *testing.T) {
	h := newHarness(t)
	c, err := h.svc.CreateChat(context.Background(), strptr("citizen-1"), false)
	require.NoError(t, err)
	h.repo.chats[c.ID].Status = StatusClosed

	_, err = h.svc.JoinAsOfficer(context.Background(), c.ID, "officer-1", user.RolePolicy)
	assert.ErrorIs(t, err, ErrChatClosed)
}

func TestJoinAsOfficerNotFound(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.JoinAsOfficer(context.Background(), "no-such-chat", "officer-1", user.RolePolicy)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOfficerJoinScenario(t *testing.T) {
	h := newHarness(t)
	c, err := h.svc.CreateChat(context.Background(), strptr("citizen-1"), false)
	require.NoError(t, err)

	joined, err := h.svc.JoinAsOfficer(context.Background(), c.ID, "officer-1", user.RolePolicy)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, joined.Status)
	require.NotNil(t, joined.OfficerID)
	assert.Equal(t, "officer-1", *joined.OfficerID)

	// Joining removed the chat from the pending queue.
	assert.Empty(t, h.queue.ids)

	// Both participants can message; the conversation replays in order.
	_, err = h.svc.SendMessage(context.Background(), c.ID, strptr("citizen-1"), "first")
	require.NoError(t, err)
	_, err = h.svc.SendMessage(context.Background(), c.ID, strptr("officer-1"), "second")
	require.NoError(t, err)

	history, err := h.svc.History(context.Background(), c.ID, "officer-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[0].Text)
	assert.Equal(t, "second", history[1].Text)
}

func TestClaimPopsOldestPending(t *testing.T) {
	h := newHarness(t)
	first, err := h.svc.CreateChat(context.Background(), strptr("citizen-1"), false)
	require.NoError(t, err)
	_, err = h.svc.CreateChat(context.Background(), nil, true)
	require.NoError(t, err)

	claimed, err := h.svc.Claim(context.Background(), "officer-1", user.RolePolicy)
	require.NoError(t, err)
	assert.Equal(t, first.ID, claimed.ID)
	assert.Equal(t, StatusInProgress, claimed.Status)
}

func TestClaimEmptyQueue(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Claim(context.Background(), "officer-1", user.RolePolicy)
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestClaimRequiresPolicyRole(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Claim(context.Background(), "citizen-1", user.RoleUser)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAccessControl(t *testing.T) {
	h := newHarness(t)
	c, err := h.svc.CreateChat(context.Background(), strptr("citizen-1"), false)
	require.NoError(t, err)
	_, err = h.svc.JoinAsOfficer(context.Background(), c.ID, "officer-1", user.RolePolicy)
	require.NoError(t, err)

	_, err = h.svc.Access(context.Background(), c.ID, "citizen-1")
	assert.NoError(t, err)
	_, err = h.svc.Access(context.Background(), c.ID, "officer-1")
	assert.NoError(t, err)
	_, err = h.svc.Access(context.Background(), c.ID, "stranger")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = h.svc.Access(context.Background(), "no-such-chat", "citizen-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPendingScopes(t *testing.T) {
	h := newHarness(t)
	mine, err := h.svc.CreateChat(context.Background(), strptr("citizen-1"), false)
	require.NoError(t, err)
	_, err = h.svc.CreateChat(context.Background(), nil, true)
	require.NoError(t, err)

	all, err := h.svc.ListPending(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := h.svc.ListPending(context.Background(), strptr("citizen-1"))
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)
}
