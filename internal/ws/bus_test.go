package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchRunsHandlersInRegistrationOrder(t *testing.T) {
	b := NewBus(testLogger())

	var order []string
	b.Subscribe(EventJoinLobby, func(identity string, _ json.RawMessage) {
		order = append(order, "first:"+identity)
	})
	b.Subscribe(EventJoinLobby, func(identity string, _ json.RawMessage) {
		order = append(order, "second:"+identity)
	})

	b.Dispatch("alice", EventJoinLobby, nil)

	assert.Equal(t, []string{"first:alice", "second:alice"}, order)
}

func TestDispatchPassesRawPayload(t *testing.T) {
	b := NewBus(testLogger())

	var got json.RawMessage
	b.Subscribe(EventGuessWord, func(_ string, data json.RawMessage) {
		got = data
	})

	payload := json.RawMessage(`{"lobbyId":"x","message":"tree"}`)
	b.Dispatch("bob", EventGuessWord, payload)

	assert.JSONEq(t, string(payload), string(got))
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus(testLogger())

	calls := 0
	sub := b.Subscribe(EventCreateLobby, func(string, json.RawMessage) { calls++ })

	b.Dispatch("alice", EventCreateLobby, nil)
	b.Unsubscribe(sub)
	b.Dispatch("alice", EventCreateLobby, nil)

	assert.Equal(t, 1, calls)

	// Double unsubscribe and nil are no-ops.
	assert.NotPanics(t, func() {
		b.Unsubscribe(sub)
		b.Unsubscribe(nil)
	})
}

func TestDispatchUnknownEventIsIgnored(t *testing.T) {
	b := NewBus(testLogger())
	assert.NotPanics(t, func() {
		b.Dispatch("alice", EventType("NO_SUCH_EVENT"), nil)
	})
}

func TestHandlerMaySubscribeDuringDispatch(t *testing.T) {
	b := NewBus(testLogger())

	nested := 0
	b.Subscribe(EventPlayerReady, func(string, json.RawMessage) {
		b.Subscribe(EventPlayerReady, func(string, json.RawMessage) { nested++ })
	})

	b.Dispatch("alice", EventPlayerReady, nil)
	assert.Equal(t, 0, nested, "handler added mid-dispatch runs next dispatch")

	b.Dispatch("alice", EventPlayerReady, nil)
	assert.Equal(t, 1, nested)
}
