// Package livereload pushes reload and error notices to open preview tabs
// over a websocket.
package livereload

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/sparkle/internal/logging"
)

// Path is where the preview script connects.
const Path = "/_sparkle/ws"

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
	sendBuffer     = 16
)

// Message types sent to the browser.
const (
	TypeReload = "reload"
	TypeError  = "error"
)

// Message is the JSON frame delivered to clients.
type Message struct {
	Type      string    `json:"type"`
	Route     string    `json:"route,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected tabs and fans messages out to them.
type Hub struct {
	clients      map[*client]struct{}
	clientsMutex sync.RWMutex

	register   chan *client
	unregister chan *client
	broadcast  chan []byte

	originPatterns []string
	logger         logging.Logger
}

// NewHub creates a hub accepting connections from originPatterns, which
// use the host patterns of websocket.AcceptOptions. An empty list accepts
// same-origin connections only.
func NewHub(logger logging.Logger, originPatterns ...string) *Hub {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Hub{
		clients:        make(map[*client]struct{}),
		register:       make(chan *client),
		unregister:     make(chan *client),
		broadcast:      make(chan []byte, 16),
		originPatterns: originPatterns,
		logger:         logger.WithComponent("livereload"),
	}
}

// Run processes registrations and broadcasts until ctx is done, then
// closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer h.closeAll()
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clientsMutex.Lock()
			h.clients[c] = struct{}{}
			count := len(h.clients)
			h.clientsMutex.Unlock()
			h.logger.Debug(ctx, "Client connected", "clients", count)
		case c := <-h.unregister:
			h.remove(c)
		case msg := <-h.broadcast:
			h.clientsMutex.RLock()
			var slow []*client
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.clientsMutex.RUnlock()
			for _, c := range slow {
				h.remove(c)
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	h.clientsMutex.Lock()
	defer h.clientsMutex.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) closeAll() {
	h.clientsMutex.Lock()
	defer h.clientsMutex.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	return len(h.clients)
}

// Reload asks every tab to reload. Route is informational.
func (h *Hub) Reload(route string) {
	h.send(Message{Type: TypeReload, Route: route})
}

// Error shows msg in every tab's error overlay.
func (h *Hub) Error(msg string) {
	h.send(Message{Type: TypeError, Message: msg})
}

func (h *Hub) send(msg Message) {
	msg.Timestamp = time.Now()
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error(context.Background(), err, "Failed to encode message", "type", msg.Type)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn(context.Background(), nil, "Broadcast queue full, dropping message", "type", msg.Type)
	}
}

// ServeHTTP upgrades the request and serves the connection until either
// side closes it.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.logger.Warn(r.Context(), err, "WebSocket upgrade failed", "remote", r.RemoteAddr)
		return
	}
	conn.SetReadLimit(maxMessageSize)

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-r.Context().Done():
		conn.Close(websocket.StatusGoingAway, "")
		return
	}

	// CloseRead discards client frames and cancels ctx once the peer goes.
	ctx := conn.CloseRead(context.Background())
	h.writePump(ctx, c)

	select {
	case h.unregister <- c:
	case <-time.After(time.Second):
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

func (h *Hub) writePump(ctx context.Context, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				h.logger.Debug(ctx, "WebSocket write failed", "error", err.Error())
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
