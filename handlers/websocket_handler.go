package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/silverbeer/swimcuttimes/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients connect from a separate frontend origin.
		return true
	},
}

// WebSocketHandler attaches watchers to a live import run feed.
type WebSocketHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// WatchImport upgrades the connection and subscribes it to the room for
// one import run. Row outcomes and the final summary are pushed as they
// happen; the client is not expected to send anything.
func (h *WebSocketHandler) WatchImport(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: importRoom(runID.String()),
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
