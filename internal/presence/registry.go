// Package presence tracks the open WebSocket connections and the users
// behind them.
package presence

import (
	"sort"
	"sync"

	"teslo/internal/models"

	"go.uber.org/zap"
)

// Events sent to the clients.
const (
	EventClientsUpdated    = "clients-updated"
	EventMessageFromServer = "message-from-server"
	EventCatalogUpdated    = "catalog-updated"
)

// EventMessageFromClient is the only event read from the clients.
const EventMessageFromClient = "message-from-client"

// Conn is the part of a WebSocket connection the registry writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Message is the envelope of every frame.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// ChatMessage is the data of a message-from-server event.
type ChatMessage struct {
	FullName string `json:"fullName"`
	Message  string `json:"message"`
}

type client struct {
	mu   sync.Mutex // serializes writes
	conn Conn
	user *models.User
}

func (c *client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Registry keeps track of connected clients by connection id.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*client)}
}

// Register adds a connection for user. A previous connection of the same
// user is closed and dropped.
func (r *Registry) Register(id string, conn Conn, user *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for otherID, other := range r.clients {
		if otherID != id && other.user.ID == user.ID {
			_ = other.conn.Close()
			delete(r.clients, otherID)
		}
	}
	r.clients[id] = &client{conn: conn, user: user}
}

// Remove drops a connection. Unknown ids are ignored.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, id)
}

// ConnectedClients returns the ids of every connection, sorted.
func (r *Registry) ConnectedClients() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.clients))
	for id := range r.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FullName returns the name of the user behind a connection.
func (r *Registry) FullName(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.clients[id]; ok {
		return c.user.FullName
	}
	return ""
}

// Broadcast sends event to every connection. Failed writes are logged; the
// reader of that connection takes care of removing it.
func (r *Registry) Broadcast(event string, data interface{}) {
	r.mu.RLock()
	targets := make(map[string]*client, len(r.clients))
	for id, c := range r.clients {
		targets[id] = c
	}
	r.mu.RUnlock()

	msg := Message{Event: event, Data: data}
	for id, c := range targets {
		if err := c.send(msg); err != nil {
			zap.L().Debug("failed to write to websocket client",
				zap.String("client_id", id), zap.String("event", event), zap.Error(err))
		}
	}
}
