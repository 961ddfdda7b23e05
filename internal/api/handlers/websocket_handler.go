package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/isdelr/userhub-be/internal/chat"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades chat requests and attaches them to the hub.
type WebSocketHandler struct {
	hub *chat.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *chat.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The chat room is open to any origin.
		return true
	},
}

// Serve handles the WebSocket connection request for /chat/ws/{display_name}.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "display_name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := chat.NewClient(h.hub, conn, name)
	if !h.hub.Register(client) {
		log.Warn().Str("name", name).Msg("Chat hub is stopped; closing connection")
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
