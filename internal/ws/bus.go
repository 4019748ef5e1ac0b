package ws

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Handler receives an inbound event: the authenticated identity that sent it
// and the undecoded payload.
type Handler func(identity string, data json.RawMessage)

// Subscription identifies one registered handler so it can be removed again.
type Subscription struct {
	event EventType
	id    uint64
}

// Bus routes inbound events to subscribed handlers. Dispatch is synchronous
// and runs handlers in registration order; events nobody subscribed to are
// dropped silently.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[EventType][]busEntry
	log    *logrus.Logger
}

type busEntry struct {
	id uint64
	fn Handler
}

func NewBus(log *logrus.Logger) *Bus {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Bus{
		subs: make(map[EventType][]busEntry),
		log:  log,
	}
}

func (b *Bus) Subscribe(t EventType, fn Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs[t] = append(b.subs[t], busEntry{id: b.nextID, fn: fn})
	return &Subscription{event: t, id: b.nextID}
}

// Unsubscribe removes a handler. Unknown or already-removed subscriptions are
// ignored.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.subs[sub.event]
	for i, e := range entries {
		if e.id == sub.id {
			b.subs[sub.event] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// Dispatch invokes every handler subscribed to t, in registration order. The
// handler list is snapshotted first so handlers may subscribe or unsubscribe
// without deadlocking.
func (b *Bus) Dispatch(identity string, t EventType, data json.RawMessage) {
	b.mu.Lock()
	entries := b.subs[t]
	snapshot := make([]Handler, len(entries))
	for i, e := range entries {
		snapshot[i] = e.fn
	}
	b.mu.Unlock()

	if len(snapshot) == 0 {
		b.log.Debugf("bus: no handler for %s from %s", t, identity)
		return
	}
	for _, fn := range snapshot {
		fn(identity, data)
	}
}
