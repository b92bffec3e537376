package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"fairhouse/config"
	"fairhouse/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  config.WSReadBufferSize,
	WriteBufferSize: config.WSWriteBufferSize,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Message is the wire envelope for feed events.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed fans fairness events out to connected websocket clients. Slow clients
// get dropped rather than allowed to stall the feed.
type Feed struct {
	mu          sync.RWMutex
	clients     map[*client]struct{}
	clientCount int64
}

func NewFeed() *Feed {
	return &Feed{clients: make(map[*client]struct{})}
}

// ClientCount returns the number of connected clients.
func (f *Feed) ClientCount() int64 {
	return atomic.LoadInt64(&f.clientCount)
}

// RoundSettled broadcasts a settled round to all clients.
func (f *Feed) RoundSettled(round *engine.Round) {
	f.broadcast(Message{Type: "round_settled", Data: round})
}

// SeedRotated broadcasts a rotation: the retired seed with its plaintext and
// the new commitment.
func (f *Feed) SeedRotated(retired *engine.RevealedSeed, next engine.SeedInfo) {
	f.broadcast(Message{
		Type: "seed_rotated",
		Data: map[string]interface{}{
			"revealed": retired,
			"active":   next,
		},
	})
}

func (f *Feed) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("⚠️  Failed to marshal feed message: %v", err)
		return
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for c := range f.clients {
		select {
		case c.send <- data:
		default:
			// Queue full; drop the client instead of stalling the feed.
			go f.remove(c)
		}
	}
}

// remove is idempotent; the map check makes sure send is closed exactly once.
// It takes the write lock, so it never races a broadcast in progress.
func (f *Feed) remove(c *client) {
	f.mu.Lock()
	if _, ok := f.clients[c]; ok {
		delete(f.clients, c)
		close(c.send)
		atomic.AddInt64(&f.clientCount, -1)
	}
	f.mu.Unlock()
	c.conn.Close()
}

// HandleWS handles GET /ws
func (f *Feed) HandleWS(w http.ResponseWriter, r *http.Request) {
	log.Println("📥 WebSocket connection attempt from:", r.RemoteAddr)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("❌ WebSocket upgrade failed:", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, config.WSSendQueueSize)}

	f.mu.Lock()
	f.clients[c] = struct{}{}
	f.mu.Unlock()
	count := atomic.AddInt64(&f.clientCount, 1)
	log.Printf("✅ Client connected! Total clients: %d", count)

	go f.writePump(c)
	f.readPump(c)
}

// writePump drains the client's send queue. One writer per connection; the
// queue is the only path to the socket.
func (f *Feed) writePump(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
	f.remove(c)
}

// readPump discards inbound frames; the feed is broadcast-only. It exists to
// notice client disconnects.
func (f *Feed) readPump(c *client) {
	defer func() {
		f.remove(c)
		log.Printf("👋 Client disconnected. Total clients: %d", atomic.LoadInt64(&f.clientCount))
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
