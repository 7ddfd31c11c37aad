// Package realtime owns the live play loop: the connection registry, the
// inbound event protocol and the coordinator that dispatches events and
// fans results out to connected players.
package realtime

import "sync"

// Conn is the write side of one player's socket. gorilla connections
// satisfy it through the safeConn wrapper; tests use fakes.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Registry maps user ids to their open connection. Entries live only as
// long as the process and the socket; a restart starts empty.
type Registry struct {
	mu    sync.Mutex
	conns map[uint64]Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[uint64]Conn)}
}

// Register stores the connection of a user, replacing a stale one if the
// user reconnected before the old socket was reaped.
func (r *Registry) Register(userId uint64, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[userId] = conn
}

// Unregister drops the user's entry, but only when it still points at the
// given connection. A reconnect that already replaced the entry stays.
func (r *Registry) Unregister(userId uint64, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conns[userId] == conn {
		delete(r.conns, userId)
	}
}

// Get returns the user's live connection, if any.
func (r *Registry) Get(userId uint64) (Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[userId]
	return conn, ok
}
