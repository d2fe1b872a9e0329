package overlay

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cncoverlay/matchwatch/pkg/matchwatch/roster"
)

const writeWait = 5 * time.Second

// Hub pushes overlay state to websocket clients. New clients receive the
// last state right away.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	last    []byte
	closed  bool
}

// NewHub creates a hub. A nil logger disables logging.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			// Browser sources load the overlay from file:// or another port.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:  logger,
		now:     time.Now,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("overlay websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[conn] = struct{}{}
	if h.last != nil {
		if err := h.send(conn, h.last); err != nil {
			h.drop(conn)
		}
	}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("overlay client connected", "remote", r.RemoteAddr, "clients", count)

	// Clients never send anything; reading only detects the close.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				h.mu.Lock()
				h.drop(conn)
				h.mu.Unlock()
				return
			}
		}
	}()
}

// Update broadcasts the roster.
func (h *Hub) Update(players []roster.Player, mapName string) error {
	return h.broadcast(BuildState(players, mapName, h.now()))
}

// Hide broadcasts a hidden state.
func (h *Hub) Hide() error {
	return h.broadcast(State{Players: []PlayerView{}, Hidden: true, Updated: h.now()})
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client. Later connections are refused.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn := range h.clients {
		h.drop(conn)
	}
	return nil
}

func (h *Hub) broadcast(st State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode overlay state: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = data
	for conn := range h.clients {
		if err := h.send(conn, data); err != nil {
			h.logger.Debug("dropping overlay client", "remote", conn.RemoteAddr(), "error", err)
			h.drop(conn)
		}
	}
	return nil
}

// send writes one message. Callers hold h.mu, which also serializes writers.
func (h *Hub) send(conn *websocket.Conn, data []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// drop removes and closes conn. Callers hold h.mu.
func (h *Hub) drop(conn *websocket.Conn) {
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	_ = conn.Close()
}
