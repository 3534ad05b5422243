// Package hub provides per-conversation fan-out to WebSocket subscribers.
package hub

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ErrBufferFull is returned when a connection's send buffer is full.
var ErrBufferFull = errors.New("send buffer full")

// Connection represents a single subscriber connection.
type Connection struct {
	ID             string
	ConversationID string
	Conn           *websocket.Conn
	Send           chan []byte
	mu             sync.Mutex
}

// Hub manages subscriber connections, grouped by conversation. Delivery
// is at-most-once and best-effort: a subscriber that cannot keep up is
// dropped, and missed notifications are never replayed.
type Hub struct {
	connections   map[string]*Connection
	conversations map[string]map[string]bool

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *conversationMessage

	log *zap.Logger
	mu  sync.RWMutex
}

type conversationMessage struct {
	ConversationID string
	Data           []byte
}

// New creates a new Hub.
func New(log *zap.Logger) *Hub {
	return &Hub{
		connections:   make(map[string]*Connection),
		conversations: make(map[string]map[string]bool),
		register:      make(chan *Connection),
		unregister:    make(chan *Connection),
		broadcast:     make(chan *conversationMessage, 256),
		log:           log,
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn.ID] = conn
			if h.conversations[conn.ConversationID] == nil {
				h.conversations[conn.ConversationID] = make(map[string]bool)
			}
			h.conversations[conn.ConversationID][conn.ID] = true
			h.mu.Unlock()
			h.log.Debug("subscriber registered",
				zap.String("connection_id", conn.ID),
				zap.String("conversation_id", conn.ConversationID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn.ID]; ok {
				delete(h.connections, conn.ID)
				if subs := h.conversations[conn.ConversationID]; subs != nil {
					delete(subs, conn.ID)
					if len(subs) == 0 {
						delete(h.conversations, conn.ConversationID)
					}
				}
				close(conn.Send)
			}
			h.mu.Unlock()
			h.log.Debug("subscriber unregistered", zap.String("connection_id", conn.ID))

		case msg := <-h.broadcast:
			h.mu.RLock()
			for connID := range h.conversations[msg.ConversationID] {
				conn, exists := h.connections[connID]
				if !exists {
					continue
				}
				select {
				case conn.Send <- msg.Data:
				default:
					// Slow consumer, drop it.
					h.log.Warn("subscriber buffer full, closing",
						zap.String("connection_id", connID))
					go h.Unregister(conn)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// NewConnection creates a connection bound to a conversation. The caller
// must Register it before use.
func (h *Hub) NewConnection(ws *websocket.Conn, conversationID string) *Connection {
	return &Connection{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Conn:           ws,
		Send:           make(chan []byte, 256),
	}
}

// Register registers a connection with the hub.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection from the hub.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Broadcast sends data to every subscriber of a conversation.
func (h *Hub) Broadcast(conversationID string, data []byte) {
	h.broadcast <- &conversationMessage{ConversationID: conversationID, Data: data}
}

// BroadcastJSON sends a JSON-encoded value to every subscriber of a
// conversation.
func (h *Hub) BroadcastJSON(conversationID string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(conversationID, data)
	return nil
}

// SubscriberCount returns the number of subscribers for a conversation.
func (h *Hub) SubscriberCount(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conversations[conversationID])
}

// WriteMessage writes a message to the connection with proper locking.
func (c *Connection) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// SetWriteDeadline sets the write deadline for the connection.
func (c *Connection) SetWriteDeadline(t time.Time) error {
	return c.Conn.SetWriteDeadline(t)
}

// SetReadDeadline sets the read deadline for the connection.
func (c *Connection) SetReadDeadline(t time.Time) error {
	return c.Conn.SetReadDeadline(t)
}

// Close closes the underlying connection.
func (c *Connection) Close() error {
	return c.Conn.Close()
}
