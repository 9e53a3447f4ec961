package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/safecity/backend/internal/modules/chat"
	"github.com/safecity/backend/internal/modules/user"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
	sendBufferSize = 64
)

// Client is one websocket connection. Its identity was derived from the
// access token at upgrade time; payload-supplied identities are ignored.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	chats  chat.Service
	logger *slog.Logger

	userID string
	role   user.Role

	send chan []byte
}

func newClient(hub *Hub, conn *websocket.Conn, chats chat.Service, logger *slog.Logger, userID string, role user.Role) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		chats:  chats,
		logger: logger,
		userID: userID,
		role:   role,
		send:   make(chan []byte, sendBufferSize),
	}
}

// trySend queues a frame without blocking; the frame is dropped when the
// client's buffer is full.
func (c *Client) trySend(frame []byte) {
	select {
	case c.send <- frame:
	default:
		c.logger.Warn("dropping frame, client buffer full", "user_id", c.userID)
	}
}

// readPump consumes incoming frames until the connection dies, then
// unregisters the client. Room membership cleanup is passive.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read failed", "error", err, "user_id", c.userID)
			}
			return
		}
		c.handleFrame(ctx, raw)
	}
}

// writePump flushes queued frames and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleFrame dispatches one client event. Failures are reported back on the
// same connection as structured error events; they never close it.
func (c *Client) handleFrame(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.trySend(badEvent("malformed event frame"))
		return
	}

	switch env.Event {
	case eventJoinChat:
		var data joinChatData
		if err := json.Unmarshal(env.Data, &data); err != nil || data.ChatID == "" {
			c.trySend(badEvent("joinChat requires a chatId"))
			return
		}
		c.handleJoinChat(ctx, data.ChatID)
	case eventSendMessage:
		var data sendMessageData
		if err := json.Unmarshal(env.Data, &data); err != nil || data.ChatID == "" {
			c.trySend(badEvent("sendMessage requires a chatId"))
			return
		}
		c.handleSendMessage(ctx, data.ChatID, data.Text)
	default:
		c.logger.Warn("unknown gateway event", "event", env.Event, "user_id", c.userID)
	}
}

// handleJoinChat checks access, subscribes the connection to the chat room
// and replays the decrypted history, oldest first.
func (c *Client) handleJoinChat(ctx context.Context, chatID string) {
	history, err := c.chats.History(ctx, chatID, c.userID)
	if err != nil {
		c.sendError(err)
		return
	}

	c.hub.join(chatID, c)

	frame, err := encodeEvent(eventMessageHistory, history)
	if err != nil {
		c.logger.Error("failed to encode history", "error", err, "chat_id", chatID)
		return
	}
	c.trySend(frame)
}

// handleSendMessage persists the message and fans it out to the room,
// including the sender.
func (c *Client) handleSendMessage(ctx context.Context, chatID, text string) {
	if _, err := c.chats.Access(ctx, chatID, c.userID); err != nil {
		c.sendError(err)
		return
	}

	view, err := c.chats.SendMessage(ctx, chatID, &c.userID, text)
	if err != nil {
		c.sendError(err)
		return
	}

	frame, err := encodeEvent(eventNewMessage, view)
	if err != nil {
		c.logger.Error("failed to encode message", "error", err, "chat_id", chatID)
		return
	}
	c.hub.BroadcastRoom(chatID, frame)
}

func (c *Client) sendError(err error) {
	c.logger.Warn("gateway event failed", "error", err, "user_id", c.userID)
	c.trySend(errorEvent(err))
}
