package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Invalidate is the only payload the server ever pushes: a cache
// invalidation tick. Clients re-fetch their own record on receipt; the
// signal carries no state on purpose.
var Invalidate = []byte("update")

// Conn is the slice of *websocket.Conn the registry uses, split out so
// tests can register fakes.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// client wraps a connection with a write mutex; gorilla connections allow
// one concurrent writer only.
type client struct {
	conn Conn
	mu   sync.Mutex
}

func (c *client) send(payload []byte, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Registry maps player names to their one live connection. A process-wide
// instance is created at server start and injected into every handler that
// broadcasts; there is no package-level singleton.
type Registry struct {
	mu          sync.RWMutex
	clients     map[string]*client
	sendTimeout time.Duration
	log         *zap.Logger
}

func NewRegistry(sendTimeout time.Duration, log *zap.Logger) *Registry {
	return &Registry{
		clients:     make(map[string]*client),
		sendTimeout: sendTimeout,
		log:         log,
	}
}

// Add installs the connection for a name. A stale connection for the same
// name is closed first so reconnects never leak sockets.
func (r *Registry) Add(name string, conn Conn) {
	r.mu.Lock()
	old := r.clients[name]
	r.clients[name] = &client{conn: conn}
	r.mu.Unlock()

	if old != nil {
		old.conn.Close()
		r.log.Debug("replaced stale connection", zap.String("player", name))
	}
}

// Remove closes and forgets the connection for a name. No-op when absent.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	c := r.clients[name]
	delete(r.clients, name)
	r.mu.Unlock()

	if c != nil {
		c.conn.Close()
	}
}

// RemoveConn forgets the name only if conn is still the registered
// connection. Read loops of replaced connections call this on exit; without
// the identity check they would tear down their successor.
func (r *Registry) RemoveConn(name string, conn Conn) {
	r.mu.Lock()
	c := r.clients[name]
	if c != nil && c.conn == conn {
		delete(r.clients, name)
	} else {
		c = nil
	}
	r.mu.Unlock()

	if c != nil {
		c.conn.Close()
	}
}

// Broadcast pushes a payload to every registered connection, best effort. A
// failing connection is logged and skipped; it never blocks the rest.
func (r *Registry) Broadcast(payload []byte) {
	r.mu.RLock()
	targets := make(map[string]*client, len(r.clients))
	for name, c := range r.clients {
		targets[name] = c
	}
	r.mu.RUnlock()

	for name, c := range targets {
		if err := c.send(payload, r.sendTimeout); err != nil {
			r.log.Warn("broadcast send failed",
				zap.String("player", name), zap.Error(err))
		}
	}
}

// Unicast pushes a payload to one connection. No-op when absent.
func (r *Registry) Unicast(name string, payload []byte) {
	r.mu.RLock()
	c := r.clients[name]
	r.mu.RUnlock()

	if c == nil {
		return
	}
	if err := c.send(payload, r.sendTimeout); err != nil {
		r.log.Warn("unicast send failed",
			zap.String("player", name), zap.Error(err))
	}
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
