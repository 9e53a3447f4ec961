package realtime

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return &Client{
		logger: slog.New(slog.DiscardHandler),
		send:   make(chan []byte, sendBufferSize),
	}
}

func TestHubRoomBroadcast(t *testing.T) {
	hub := NewHub()
	a, b, outsider := newTestClient(), newTestClient(), newTestClient()
	for _, c := range []*Client{a, b, outsider} {
		c.hub = hub
		hub.register(c)
	}
	hub.join("chat-1", a)
	hub.join("chat-1", b)

	hub.BroadcastRoom("chat-1", []byte("hello"))

	assert.Equal(t, []byte("hello"), <-a.send)
	assert.Equal(t, []byte("hello"), <-b.send)
	assert.Empty(t, outsider.send)
	assert.Equal(t, 2, hub.RoomSize("chat-1"))
}

func TestHubBroadcastAll(t *testing.T) {
	hub := NewHub()
	a, b := newTestClient(), newTestClient()
	hub.register(a)
	hub.register(b)

	hub.BroadcastAll([]byte("alert"))

	assert.Equal(t, []byte("alert"), <-a.send)
	assert.Equal(t, []byte("alert"), <-b.send)
}

func TestHubUnregisterCleansRooms(t *testing.T) {
	hub := NewHub()
	a := newTestClient()
	hub.register(a)
	hub.join("chat-1", a)
	require.Equal(t, 1, hub.RoomSize("chat-1"))

	hub.unregister(a)
	assert.Equal(t, 0, hub.RoomSize("chat-1"))

	// The send channel is closed so the write pump exits.
	_, open := <-a.send
	assert.False(t, open)

	// Unregistering twice is harmless.
	hub.unregister(a)
}

func TestHubJoinRequiresRegistration(t *testing.T) {
	hub := NewHub()
	a := newTestClient()

	hub.join("chat-1", a)
	assert.Equal(t, 0, hub.RoomSize("chat-1"))
}

func TestTrySendDropsWhenFull(t *testing.T) {
	c := &Client{
		logger: slog.New(slog.DiscardHandler),
		send:   make(chan []byte, 1),
	}
	c.trySend([]byte("one"))
	c.trySend([]byte("two")) // dropped, must not block

	assert.Equal(t, []byte("one"), <-c.send)
	assert.Empty(t, c.send)
}
