package feed

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	sendBufferSize = 16
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Overlays are loaded from local files or other ports.
	CheckOrigin: func(*http.Request) bool { return true },
}

// client is one WebSocket connection. Frames that do not fit its buffer are
// dropped.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// hub fans messages out to clients and remembers the latest message of each
// type so new clients start from the current state.
type hub struct {
	logger *log.Logger

	mu       sync.Mutex
	clients  map[*client]struct{}
	snapshot map[string][]byte
	order    []string
}

func newHub(logger *log.Logger) *hub {
	return &hub{
		logger:   logger,
		clients:  make(map[*client]struct{}),
		snapshot: make(map[string][]byte),
		order:    []string{TypePlayer, TypeStatus, TypeTrack, TypeLyrics, TypeLabels},
	}
}

func (h *hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encode feed message", "type", msg.Type, "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshot[msg.Type] = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Debug("feed client too slow, dropping frame", "remote", c.conn.RemoteAddr())
		}
	}
}

// add registers c and queues the current state for it.
func (h *hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, typ := range h.order {
		if data, ok := h.snapshot[typ]; ok {
			c.send <- data
		}
	}
	h.clients[c] = struct{}{}
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// closeAll disconnects every client.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}
	h.add(c)
	h.logger.Info("feed client connected", "remote", conn.RemoteAddr())

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards incoming frames and unregisters c when the connection
// closes.
func (h *hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		h.logger.Info("feed client disconnected", "remote", c.conn.RemoteAddr())
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("feed client read failed", "remote", c.conn.RemoteAddr(), "err", err)
			}
			return
		}
	}
}

func (h *hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
