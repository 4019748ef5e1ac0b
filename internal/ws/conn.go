package ws

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// outBufferSize bounds the per-connection send queue. A client that cannot
// keep up has messages dropped rather than stalling the lobby.
const outBufferSize = 64

// Conn is the server-side handle for one player's websocket. The write pump
// drains Out; everything else goes through Send so a slow or closed
// connection never blocks game logic.
type Conn struct {
	Identity string

	// Cancel tears down the pumps for the underlying socket. Set by the
	// handler that accepted the connection.
	Cancel func()

	mu     sync.Mutex
	out    chan Envelope
	closed bool

	log *logrus.Logger
}

func NewConn(identity string, cancel func(), log *logrus.Logger) *Conn {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Conn{
		Identity: identity,
		Cancel:   cancel,
		out:      make(chan Envelope, outBufferSize),
		log:      log,
	}
}

// Out exposes the send queue to the write pump.
func (c *Conn) Out() <-chan Envelope { return c.out }

// Send queues an event for delivery. It never blocks: if the buffer is full
// the event is dropped and logged, and sends after Close are no-ops.
func (c *Conn) Send(t EventType, data interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.out <- Envelope{Type: t, Data: data}:
	default:
		c.log.Warnf("conn %s: send buffer full, dropping %s", c.Identity, t)
	}
}

// SendError emits a bare ERROR event with a message.
func (c *Conn) SendError(msg string) {
	c.Send(EventError, ErrorPayload{Message: msg})
}

// SendOpError emits the <OP>_ERROR event for a failed operation.
func (c *Conn) SendOpError(op EventType, code, msg string) {
	c.Send(OpError(op), ErrorPayload{Code: code, Message: msg})
}

// Close shuts the send queue and cancels the pumps. Safe to call more than
// once; Send after Close drops silently.
func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.out)
	c.mu.Unlock()

	if c.Cancel != nil {
		c.Cancel()
	}
}

// Closed reports whether Close has been called.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
