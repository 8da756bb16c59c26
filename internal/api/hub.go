package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/quantumlife/cogmind/internal/logging"
)

// StreamMessage is one event on the thought stream.
type StreamMessage struct {
	Type      string      `json:"type"` // "thought" or "emotion"
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// streamClient is one connected WebSocket subscriber.
type streamClient struct {
	id   string
	conn *websocket.Conn
	send chan StreamMessage
}

// ThoughtHub fans the mind's recorded activity out to WebSocket
// subscribers. Slow clients drop messages rather than stalling the hub.
type ThoughtHub struct {
	upgrader websocket.Upgrader

	register   chan *streamClient
	unregister chan *streamClient
	broadcast  chan StreamMessage
	done       chan struct{}

	mu      sync.RWMutex
	clients map[string]*streamClient

	log *logging.Logger
}

// NewThoughtHub creates a hub; call Run to start it.
func NewThoughtHub() *ThoughtHub {
	return &ThoughtHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local single-user server
			},
		},
		register:   make(chan *streamClient),
		unregister: make(chan *streamClient),
		broadcast:  make(chan StreamMessage, 64),
		done:       make(chan struct{}),
		clients:    make(map[string]*streamClient),
		log:        logging.WithField("component", "stream"),
	}
}

// Run processes registration and broadcast events until Close.
func (h *ThoughtHub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for _, c := range h.clients {
				close(c.send)
				c.conn.Close()
			}
			h.clients = make(map[string]*streamClient)
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			h.mu.Unlock()
			h.log.Debug("stream client connected: %s", c.id)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.send)
			}
			h.mu.Unlock()
			h.log.Debug("stream client disconnected: %s", c.id)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// client too slow, drop the message
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Close shuts the hub down and disconnects every client.
func (h *ThoughtHub) Close() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

// Broadcast queues a message for every connected client. Never blocks;
// when the hub is saturated the message is dropped.
func (h *ThoughtHub) Broadcast(msg StreamMessage) {
	select {
	case h.broadcast <- msg:
	default:
	}
}

// ClientCount returns the number of connected subscribers.
func (h *ThoughtHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades the connection and subscribes it.
func (h *ThoughtHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "could not upgrade connection", http.StatusBadRequest)
		return
	}

	c := &streamClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan StreamMessage, 16),
	}

	// A late upgrade can race hub shutdown; never block on a hub that
	// already stopped running.
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

func (h *ThoughtHub) writePump(c *streamClient) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; it exists to detect disconnects.
func (h *ThoughtHub) readPump(c *streamClient) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
