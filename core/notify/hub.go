// Package notify delivers moderation lifecycle events to connected moderator
// dashboards over websocket. Delivery is best effort: slow clients are
// dropped, the database remains the source of truth.
package notify

import (
	"encoding/json"
	"sync"
	"time"

	"distr/logger"

	"github.com/gorilla/websocket"
)

// Event types pushed to subscribers.
const (
	EventReleaseSubmitted = "release_submitted"
	EventReleaseModerated = "release_moderated"
)

// Event describes one moderation lifecycle change.
type Event struct {
	Type      string `json:"type"`
	ReleaseID int64  `json:"releaseId"`
	State     string `json:"state"`
	Timestamp int64  `json:"timestamp"`
}

// Publisher is what services see; the hub implements it.
type Publisher interface {
	Publish(event Event)
}

// Client is one connected subscriber.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to all registered clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	stop       chan struct{}
}

// NewHub creates an event hub. Call Run in a goroutine before use.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 64),
		stop:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
		case client := <-h.unregister:
			h.removeClient(client)
		case event := <-h.broadcast:
			h.fanOut(event)
		case <-h.stop:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop shuts the hub down and disconnects all clients.
func (h *Hub) Stop() {
	close(h.stop)
}

// Publish queues an event for broadcast. Never blocks the caller; events are
// dropped when the queue is full.
func (h *Hub) Publish(event Event) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	select {
	case h.broadcast <- event:
	default:
		logger.Warn("moderation event queue full, dropping event",
			logger.String("type", event.Type),
			logger.Int64("releaseId", event.ReleaseID))
	}
}

// ClientCount reports the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		close(client.send)
		delete(h.clients, client)
	}
}

func (h *Hub) fanOut(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal moderation event", logger.ErrorField(err))
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- payload:
		default:
			// Slow consumer, drop it.
			h.removeClient(client)
		}
	}
}

// Serve attaches an upgraded connection to the hub and blocks until the
// connection closes.
func (h *Hub) Serve(conn *websocket.Conn) {
	client := &Client{
		conn: conn,
		send: make(chan []byte, 16),
	}
	h.register <- client

	go client.writePump()
	client.readPump(h)
}

// readPump discards inbound frames; the feed is one-way. It exists so the
// close handshake and connection errors are noticed.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
