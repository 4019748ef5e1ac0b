package ws

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func drain(c *Conn) []Envelope {
	var out []Envelope
	for {
		select {
		case env, ok := <-c.Out():
			if !ok {
				return out
			}
			out = append(out, env)
		default:
			return out
		}
	}
}

func TestRegisterReplacesPriorConnection(t *testing.T) {
	r := NewRegistry(testLogger())

	first := NewConn("alice", nil, testLogger())
	second := NewConn("alice", nil, testLogger())

	r.Register(first)
	r.Register(second)

	assert.True(t, first.Closed(), "displaced connection must be closed")
	assert.False(t, second.Closed())

	got, ok := r.Get("alice")
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestUnregisterIgnoresStaleConnection(t *testing.T) {
	r := NewRegistry(testLogger())

	first := NewConn("alice", nil, testLogger())
	second := NewConn("alice", nil, testLogger())
	r.Register(first)
	r.Register(second)

	// The displaced pump cleaning up must not evict the replacement.
	r.Unregister(first)
	got, ok := r.Get("alice")
	require.True(t, ok)
	assert.Same(t, second, got)

	r.Unregister(second)
	_, ok = r.Get("alice")
	assert.False(t, ok)
}

func TestSendSkipsMissingConnections(t *testing.T) {
	r := NewRegistry(testLogger())
	alice := NewConn("alice", nil, testLogger())
	r.Register(alice)

	r.SendToAll([]string{"alice", "ghost"}, EventGameStarted, nil)

	got := drain(alice)
	require.Len(t, got, 1)
	assert.Equal(t, EventGameStarted, got[0].Type)
}

func TestBroadcastExcludesSender(t *testing.T) {
	r := NewRegistry(testLogger())
	alice := NewConn("alice", nil, testLogger())
	bob := NewConn("bob", nil, testLogger())
	carol := NewConn("carol", nil, testLogger())
	r.Register(alice)
	r.Register(bob)
	r.Register(carol)

	r.Broadcast(EventDrawData, "stroke", "alice")

	assert.Empty(t, drain(alice))
	assert.Len(t, drain(bob), 1)
	assert.Len(t, drain(carol), 1)
}

func TestSendAfterCloseIsDropped(t *testing.T) {
	c := NewConn("alice", nil, testLogger())
	c.Close()
	assert.NotPanics(t, func() {
		c.Send(EventGameStarted, nil)
		c.Close()
	})
}

func TestSendDropsWhenBufferFull(t *testing.T) {
	c := NewConn("alice", nil, testLogger())
	assert.NotPanics(t, func() {
		for i := 0; i < outBufferSize*2; i++ {
			c.Send(EventRoundTime, i)
		}
	})
	assert.Len(t, drain(c), outBufferSize)
}
