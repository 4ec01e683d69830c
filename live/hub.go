// Package live pushes import progress to websocket subscribers. Each
// import run gets a room; the import handler publishes row outcomes and a
// final summary as they land.
package live

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Message is the envelope every subscriber receives.
type Message struct {
	Type    string      `json:"type"` // "row" or "summary"
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
	Room string

	mu     sync.Mutex
	closed bool
}

type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	rooms  map[string]map[*Client]bool
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run owns the room bookkeeping. Start it once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.mu.Unlock()
			h.logger.Debug("live client registered", slog.String("room", client.Room))

		case client := <-h.Unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.Room]; ok {
				if room[client] {
					client.closeSend()
					delete(room, client)
					if len(room) == 0 {
						delete(h.rooms, client.Room)
					}
				}
			}
			h.mu.Unlock()
			h.logger.Debug("live client unregistered", slog.String("room", client.Room))
		}
	}
}

// BroadcastToRoom sends one message to every subscriber of a room. Slow
// clients are skipped rather than blocking the import.
func (h *Hub) BroadcastToRoom(roomID string, msgType string, payload interface{}) {
	message, err := json.Marshal(Message{Type: msgType, Payload: payload, RoomID: roomID})
	if err != nil {
		h.logger.Error("failed to marshal live message", slog.String("room", roomID), slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[roomID] {
		client.mu.Lock()
		if !client.closed {
			select {
			case client.Send <- message:
			default:
			}
		}
		client.mu.Unlock()
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.Send)
		c.closed = true
	}
}

// ReadPump drains the connection to keep pong handling alive; inbound
// messages are ignored, the feed is one-way.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
