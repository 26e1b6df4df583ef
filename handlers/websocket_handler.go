package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/prediction-league/broadcast"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin filtering is deployment policy; the engine accepts any.
		return true
	},
}

type WebSocketHandler struct {
	hub    *broadcast.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *broadcast.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeUpdates upgrades the connection and subscribes it to change signals.
// GET /ws/updates
func (h *WebSocketHandler) ServeUpdates(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error to the client.
		h.logger.Warn("failed to upgrade subscriber connection", slog.Any("error", err))
		return
	}

	client := broadcast.NewClient(h.hub, conn)
	h.hub.Register(client)

	go client.WritePump(h.logger)
	go client.ReadPump(h.logger)
}
