package realtime

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/safecity/backend/internal/middleware"
	"github.com/safecity/backend/internal/modules/chat"
	"github.com/safecity/backend/internal/modules/user"
	"github.com/safecity/backend/internal/token"
)

// Gateway upgrades authenticated HTTP requests to websocket connections and
// hands them to the hub. The caller's identity is derived from the access
// token, never from event payloads.
type Gateway struct {
	hub      *Hub
	chats    chat.Service
	tokens   *token.Service
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewGateway creates a gateway around the given hub.
func NewGateway(hub *Hub, chats chat.Service, tokens *token.Service, logger *slog.Logger) *Gateway {
	return &Gateway{
		hub:    hub,
		chats:  chats,
		tokens: tokens,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients authenticate with the access token; the
			// Origin header adds nothing on top of that.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP handles GET /ws. The access token comes from the token query
// parameter, the accessToken cookie or a bearer header.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		tokenString = middleware.TokenFromRequest(r)
	}
	if tokenString == "" {
		http.Error(w, "missing access token", http.StatusUnauthorized)
		return
	}

	claims, err := g.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		g.logger.Warn("websocket auth failed", "error", err)
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := newClient(g.hub, conn, g.chats, g.logger, claims.UserID, user.Role(claims.Role))
	g.hub.register(client)
	g.logger.Info("websocket connected", "user_id", claims.UserID)

	go client.writePump()
	// The request context dies when ServeHTTP returns; the connection
	// outlives it.
	go client.readPump(context.Background())
}

// BroadcastEmergency pushes an emergencyUpdate event to every connection.
func (g *Gateway) BroadcastEmergency(data EmergencyData) error {
	frame, err := encodeEvent(eventEmergencyUpdate, data)
	if err != nil {
		return err
	}
	g.hub.BroadcastAll(frame)
	return nil
}
