package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"foundry/internal/game"
)

const (
	writeWait      = 10 * time.Second
	clientSendSlot = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The UI is served from arbitrary origins during development.
	CheckOrigin: func(*http.Request) bool { return true },
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans state snapshots out to connected websocket clients. It implements
// game.Observer, so every applied action and tick reaches the UI.
type Hub struct {
	log *slog.Logger

	mu      sync.Mutex
	clients map[string]*wsClient
	closed  bool
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		log:     logger,
		clients: make(map[string]*wsClient),
	}
}

// StateChanged implements game.Observer. Slow clients have the frame dropped
// rather than stalling the engine.
func (h *Hub) StateChanged(snap game.State) {
	payload, err := json.Marshal(snap)
	if err != nil {
		h.log.Error("snapshot marshal failed", "error", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.log.Warn("dropping frame for slow client", "client_id", c.id)
		}
	}
}

// Close disconnects every client and rejects future registrations.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
	}
}

func (h *Hub) register(c *wsClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c.id] = c
	return true
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &wsClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, clientSendSlot),
	}
	if !s.hub.register(c) {
		_ = conn.Close()
		return
	}
	s.log.Info("websocket client connected", "client_id", c.id, "remote", r.RemoteAddr)

	// Prime the connection with the current snapshot so the UI renders
	// without waiting for the next tick.
	if payload, err := json.Marshal(s.game.Snapshot()); err == nil {
		select {
		case c.send <- payload:
		default:
		}
	}

	go c.writeLoop(s.hub)
	go c.readLoop(s.hub)
}

func (c *wsClient) writeLoop(h *Hub) {
	defer c.conn.Close()
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.unregister(c)
			return
		}
	}
}

// readLoop drains and discards client frames; the feed is one-way. It exists
// to notice disconnects.
func (c *wsClient) readLoop(h *Hub) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
