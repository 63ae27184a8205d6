package handlers

import (
	"encoding/json"

	"teslo/internal/presence"
	"teslo/internal/services"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tokenLocalsKey = "ws_token"

type inboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type clientMessage struct {
	Message string `json:"message"`
}

// MessagesWsHandler serves the chat and presence WebSocket.
type MessagesWsHandler struct {
	authService *services.AuthService
	registry    *presence.Registry
}

// NewMessagesWsHandler creates a new MessagesWsHandler.
func NewMessagesWsHandler(authService *services.AuthService, registry *presence.Registry) *MessagesWsHandler {
	return &MessagesWsHandler{authService: authService, registry: registry}
}

// RegisterRoutes registers the WebSocket endpoint at /ws.
func (h *MessagesWsHandler) RegisterRoutes(router fiber.Router) {
	router.Use("/ws", h.HandleUpgrade)
	router.Get("/ws", websocket.New(h.HandleConnection))
}

// HandleUpgrade rejects plain HTTP requests and keeps the handshake token
// for the connection.
func (h *MessagesWsHandler) HandleUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals(tokenLocalsKey, c.Get("authentication"))
	return c.Next()
}

// HandleConnection authenticates the connection, registers it and relays
// chat messages until the client goes away.
func (h *MessagesWsHandler) HandleConnection(conn *websocket.Conn) {
	token, _ := conn.Locals(tokenLocalsKey).(string)
	user, err := h.authService.ResolvePrincipal(token)
	if err != nil {
		zap.L().Debug("websocket rejected", zap.Error(err))
		_ = conn.Close()
		return
	}

	id := uuid.New().String()
	h.registry.Register(id, conn, user)
	h.registry.Broadcast(presence.EventClientsUpdated, h.registry.ConnectedClients())
	zap.L().Debug("websocket connected", zap.String("client_id", id), zap.String("user_id", user.ID))

	defer func() {
		h.registry.Remove(id)
		_ = conn.Close()
		h.registry.Broadcast(presence.EventClientsUpdated, h.registry.ConnectedClients())
		zap.L().Debug("websocket disconnected", zap.String("client_id", id))
	}()

	for {
		mt, payload, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("websocket read error", zap.String("client_id", id), zap.Error(err))
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		var msg inboundMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			zap.L().Debug("invalid websocket frame", zap.String("client_id", id), zap.Error(err))
			continue
		}
		switch msg.Event {
		case presence.EventMessageFromClient:
			var body clientMessage
			if len(msg.Data) > 0 {
				_ = json.Unmarshal(msg.Data, &body)
			}
			if body.Message == "" {
				body.Message = "no message!!"
			}
			fullName := h.registry.FullName(id)
			if fullName == "" {
				// replaced by a newer connection of the same user
				continue
			}
			h.registry.Broadcast(presence.EventMessageFromServer, presence.ChatMessage{
				FullName: fullName,
				Message:  body.Message,
			})
		default:
			zap.L().Debug("unknown websocket event", zap.String("client_id", id), zap.String("event", msg.Event))
		}
	}
}
