// Package hub tracks live socket connections per user and pushes
// payloads to them.
package hub

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handle is a transport a payload can be written to.
type Handle interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type client struct {
	mu     sync.Mutex
	handle Handle
	closed bool
}

func (c *client) markClosed() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Registry holds at most one handle per user; registering again replaces
// and closes the previous handle.
type Registry struct {
	mu      sync.RWMutex
	clients map[uint]*client
	owners  map[Handle]uint
	log     *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		clients: make(map[uint]*client),
		owners:  make(map[Handle]uint),
		log:     log,
	}
}

func (r *Registry) Register(userID uint, handle Handle) {
	r.mu.Lock()
	previous := r.clients[userID]
	if previous != nil {
		delete(r.owners, previous.handle)
	}
	r.clients[userID] = &client{handle: handle}
	r.owners[handle] = userID
	r.mu.Unlock()

	if previous != nil && previous.handle != handle {
		previous.markClosed()
		if err := previous.handle.Close(); err != nil {
			r.log.Debug("close replaced connection", zap.Uint("user_id", userID), zap.Error(err))
		}
		r.log.Info("connection replaced", zap.Uint("user_id", userID))
	}
}

// Unregister forgets handle. It reports false when the handle was not
// registered, e.g. because a newer connection already replaced it.
func (r *Registry) Unregister(handle Handle) (uint, bool) {
	r.mu.Lock()
	userID, ok := r.owners[handle]
	if !ok {
		r.mu.Unlock()
		return 0, false
	}
	delete(r.owners, handle)
	current := r.clients[userID]
	if current != nil && current.handle == handle {
		delete(r.clients, userID)
	}
	r.mu.Unlock()

	if current != nil && current.handle == handle {
		current.markClosed()
	}
	return userID, true
}

// Push writes payload to the user's live connection. It returns false
// without error when the user is offline or the write fails; a failed
// connection is dropped.
func (r *Registry) Push(userID uint, payload []byte) bool {
	r.mu.RLock()
	c := r.clients[userID]
	r.mu.RUnlock()
	if c == nil {
		return false
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	err := c.handle.WriteMessage(websocket.TextMessage, payload)
	c.mu.Unlock()
	if err == nil {
		return true
	}

	r.log.Warn("push failed, dropping connection", zap.Uint("user_id", userID), zap.Error(err))
	if _, ok := r.Unregister(c.handle); ok {
		_ = c.handle.Close()
	}
	return false
}

func (r *Registry) Online(userID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[userID]
	return ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// CloseAll closes every tracked connection; used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	clients := r.clients
	r.clients = make(map[uint]*client)
	r.owners = make(map[Handle]uint)
	r.mu.Unlock()

	for userID, c := range clients {
		c.markClosed()
		if err := c.handle.Close(); err != nil {
			r.log.Debug("close connection", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
}
