package ws

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Registry tracks the single live connection per identity. Registering a new
// connection for an identity that already has one closes the old connection
// first, so the newest socket always wins.
type Registry struct {
	mu    sync.Mutex
	conns map[string]*Conn
	log   *logrus.Logger
}

func NewRegistry(log *logrus.Logger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{
		conns: make(map[string]*Conn),
		log:   log,
	}
}

// Register installs conn as the live connection for its identity, displacing
// and closing any prior one.
func (r *Registry) Register(conn *Conn) {
	r.mu.Lock()
	prev := r.conns[conn.Identity]
	r.conns[conn.Identity] = conn
	r.mu.Unlock()

	if prev != nil && prev != conn {
		r.log.Infof("registry: replacing connection for %s", conn.Identity)
		prev.Close()
	}
}

// Unregister removes conn, but only if it is still the live connection for
// its identity. A stale pump cleaning up after being displaced must not tear
// down its replacement.
func (r *Registry) Unregister(conn *Conn) {
	r.mu.Lock()
	if r.conns[conn.Identity] == conn {
		delete(r.conns, conn.Identity)
	}
	r.mu.Unlock()
}

// Get returns the live connection for identity, if any.
func (r *Registry) Get(identity string) (*Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[identity]
	return c, ok
}

// Send delivers an event to one identity. Missing connections are skipped;
// absence is not an error.
func (r *Registry) Send(identity string, t EventType, data interface{}) {
	if c, ok := r.Get(identity); ok {
		c.Send(t, data)
	}
}

// SendToAll delivers an event to each listed identity, skipping identities
// without a live connection.
func (r *Registry) SendToAll(identities []string, t EventType, data interface{}) {
	for _, id := range identities {
		r.Send(id, t, data)
	}
}

// Broadcast delivers an event to every registered connection, optionally
// excluding one identity (the relay sender).
func (r *Registry) Broadcast(t EventType, data interface{}, except string) {
	r.mu.Lock()
	targets := make([]*Conn, 0, len(r.conns))
	for id, c := range r.conns {
		if id == except {
			continue
		}
		targets = append(targets, c)
	}
	r.mu.Unlock()

	for _, c := range targets {
		c.Send(t, data)
	}
}
