package game

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTick = 5 * time.Millisecond

func newTestTimerManager() *TimerManager {
	m := NewTimerManager()
	m.tick = testTick
	return m
}

func TestRoundTimerTicksDownAndExpires(t *testing.T) {
	m := newTestTimerManager()

	ticks := make(chan int, 16)
	expired := make(chan struct{})
	m.StartRoundTimer("lobby", 3,
		func(remaining int) { ticks <- remaining },
		func() { close(expired) },
	)

	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatal("round timer never expired")
	}

	close(ticks)
	var got []int
	for r := range ticks {
		got = append(got, r)
	}
	assert.Equal(t, []int{2, 1}, got)
}

func TestCancelRoundTimerStopsCallbacks(t *testing.T) {
	m := newTestTimerManager()

	var fired int32
	m.StartRoundTimer("lobby", 3,
		func(int) { atomic.AddInt32(&fired, 1) },
		func() { atomic.AddInt32(&fired, 100) },
	)
	m.CancelRoundTimer("lobby")

	time.Sleep(6 * testTick)
	assert.Zero(t, atomic.LoadInt32(&fired))

	// Cancel with nothing running is a no-op.
	assert.NotPanics(t, func() { m.CancelRoundTimer("lobby") })
}

func TestRestartSupersedesRunningTimer(t *testing.T) {
	m := newTestTimerManager()

	var stale int32
	m.StartRoundTimer("lobby", 2, nil, func() { atomic.AddInt32(&stale, 1) })

	fresh := make(chan struct{})
	m.StartRoundTimer("lobby", 2, nil, func() { close(fresh) })

	select {
	case <-fresh:
	case <-time.After(time.Second):
		t.Fatal("replacement timer never expired")
	}
	time.Sleep(4 * testTick)
	assert.Zero(t, atomic.LoadInt32(&stale), "superseded timer must not fire")
}

func TestTimersAreIndependentPerLobby(t *testing.T) {
	m := newTestTimerManager()

	a := make(chan struct{})
	m.StartRoundTimer("a", 2, nil, func() { close(a) })

	var b int32
	m.StartRoundTimer("b", 2, nil, func() { atomic.AddInt32(&b, 1) })
	m.CancelRoundTimer("b")

	select {
	case <-a:
	case <-time.After(time.Second):
		t.Fatal("lobby a timer never expired")
	}
	assert.Zero(t, atomic.LoadInt32(&b))
}

func TestSelectionTimeoutFiresOnce(t *testing.T) {
	m := newTestTimerManager()

	fired := make(chan struct{}, 4)
	m.StartSelectionTimeout("lobby", 2, func() { fired <- struct{}{} })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("selection timeout never fired")
	}
	time.Sleep(4 * testTick)
	require.Empty(t, fired)
}

func TestCancelSelectionTimeout(t *testing.T) {
	m := newTestTimerManager()

	var fired int32
	m.StartSelectionTimeout("lobby", 2, func() { atomic.AddInt32(&fired, 1) })
	m.CancelSelectionTimeout("lobby")

	time.Sleep(5 * testTick)
	assert.Zero(t, atomic.LoadInt32(&fired))
}

func TestSelectionTimeoutRestartSupersedes(t *testing.T) {
	m := newTestTimerManager()

	var stale int32
	m.StartSelectionTimeout("lobby", 2, func() { atomic.AddInt32(&stale, 1) })

	fresh := make(chan struct{})
	m.StartSelectionTimeout("lobby", 2, func() { close(fresh) })

	select {
	case <-fresh:
	case <-time.After(time.Second):
		t.Fatal("replacement timeout never fired")
	}
	assert.Zero(t, atomic.LoadInt32(&stale))
}
