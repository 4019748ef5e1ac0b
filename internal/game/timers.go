package game

import (
	"sync"
	"time"
)

// TimerManager owns the per-lobby round countdown and word-selection timeout.
// Starting a timer supersedes any running one for the same lobby, cancel is
// idempotent, and callbacks verify they are still the current timer before
// acting, so a superseded goroutine can never fire into a newer round.
//
// One tick is normally a second; tests shrink it to run the same countdown
// logic in milliseconds.
type TimerManager struct {
	mu         sync.Mutex
	tick       time.Duration
	countdowns map[string]*countdown
	selections map[string]*selection
}

type countdown struct {
	stop chan struct{}
}

type selection struct {
	timer *time.Timer
}

func NewTimerManager() *TimerManager {
	return &TimerManager{
		tick:       time.Second,
		countdowns: make(map[string]*countdown),
		selections: make(map[string]*selection),
	}
}

// StartRoundTimer begins a countdown of the given number of ticks for a
// lobby, replacing any countdown already running. onTick is called with the
// remaining tick count after each elapsed tick; onExpire once the countdown
// reaches zero. Neither is called after CancelRoundTimer or a restart.
func (m *TimerManager) StartRoundTimer(lobbyID string, ticks int, onTick func(remaining int), onExpire func()) {
	cd := &countdown{stop: make(chan struct{})}

	m.mu.Lock()
	if prev, ok := m.countdowns[lobbyID]; ok {
		close(prev.stop)
	}
	m.countdowns[lobbyID] = cd
	m.mu.Unlock()

	go m.runCountdown(lobbyID, cd, ticks, onTick, onExpire)
}

func (m *TimerManager) runCountdown(lobbyID string, cd *countdown, remaining int, onTick func(int), onExpire func()) {
	t := time.NewTicker(m.tick)
	defer t.Stop()

	for {
		select {
		case <-cd.stop:
			return
		case <-t.C:
			remaining--

			m.mu.Lock()
			if m.countdowns[lobbyID] != cd {
				m.mu.Unlock()
				return
			}
			if remaining <= 0 {
				// Remove ourselves before firing so the expiry handler can
				// start or cancel lobby timers without deadlocking on us.
				delete(m.countdowns, lobbyID)
				m.mu.Unlock()
				if onExpire != nil {
					onExpire()
				}
				return
			}
			m.mu.Unlock()

			if onTick != nil {
				onTick(remaining)
			}
		}
	}
}

// CancelRoundTimer stops the lobby's countdown if one is running.
func (m *TimerManager) CancelRoundTimer(lobbyID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cd, ok := m.countdowns[lobbyID]; ok {
		close(cd.stop)
		delete(m.countdowns, lobbyID)
	}
}

// StartSelectionTimeout arms the one-shot word-selection fallback for a
// lobby, replacing any pending one.
func (m *TimerManager) StartSelectionTimeout(lobbyID string, ticks int, onTimeout func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.selections[lobbyID]; ok {
		prev.timer.Stop()
	}

	sel := &selection{}
	sel.timer = time.AfterFunc(time.Duration(ticks)*m.tick, func() {
		m.mu.Lock()
		if m.selections[lobbyID] != sel {
			m.mu.Unlock()
			return
		}
		delete(m.selections, lobbyID)
		m.mu.Unlock()
		onTimeout()
	})
	m.selections[lobbyID] = sel
}

// CancelSelectionTimeout disarms the lobby's pending selection fallback.
// Stopping after the callback began is harmless: the callback's currency
// check has already decided.
func (m *TimerManager) CancelSelectionTimeout(lobbyID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sel, ok := m.selections[lobbyID]; ok {
		sel.timer.Stop()
		delete(m.selections, lobbyID)
	}
}

// CancelAll stops every timer a lobby owns. Used on teardown.
func (m *TimerManager) CancelAll(lobbyID string) {
	m.CancelRoundTimer(lobbyID)
	m.CancelSelectionTimeout(lobbyID)
}
