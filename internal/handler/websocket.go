package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	ws "github.com/zizouhuweidi/trivia/internal/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler subscribes clients to the question event feed
type WebSocketHandler struct {
	hub    *ws.Hub
	logger *zap.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *ws.Hub, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
	}
}

// HandleWebSocket upgrades the connection and registers it with the hub
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	// Upgrade writes its own 400 response on failure.
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return nil
	}

	client := ws.NewClient(h.hub, conn)
	if err := h.hub.Register(c.Request().Context(), client); err != nil {
		h.logger.Warn("failed to register websocket client", zap.Error(err))
		conn.Close()
	}
	return nil
}
