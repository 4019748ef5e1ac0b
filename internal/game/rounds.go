package game

import (
	"context"
	"math/rand"

	"github.com/davidritter-dotcom/webe-backend/internal/ws"
)

// dealRoundLocked advances to the next round: bumps the round counter,
// rotates the drawer off it, clears the previous round's state, and puts the
// drawer into word selection. Rounds are 1-based on the wire; the counter
// moves before the deal. Caller holds the lobby lock and saves afterwards.
func (s *Service) dealRoundLocked(l *Lobby) {
	l.CurrentRound++
	l.CurrentDrawer = l.Drawer(l.CurrentRound)
	l.CurrentWord = ""
	l.CorrectGuessers = nil
	l.ChatHistory = nil
	l.WordOptions = s.words.Pick(3)

	s.registry.Send(l.CurrentDrawer, ws.EventWordChoices, WordChoicesPayload{
		WordOptions:    l.WordOptions,
		TimeoutSeconds: s.SelectionTicks,
	})

	round := l.CurrentRound
	s.timers.StartSelectionTimeout(l.ID, s.SelectionTicks, func() {
		s.resolveSelectionTimeout(l.ID, round)
	})

	s.log.Infof("lobby %s: round %d dealt, drawer %s", l.ID, l.CurrentRound, l.CurrentDrawer)
}

// resolveSelectionTimeout fires when the drawer let the selection window
// lapse: a random candidate becomes the word. The round guard makes a stale
// timeout from an earlier round a no-op.
func (s *Service) resolveSelectionTimeout(lobbyID string, round int) {
	mu := s.lockFor(lobbyID)
	mu.Lock()
	defer mu.Unlock()

	l, err := s.store.Load(context.Background(), lobbyID)
	if err != nil {
		return
	}
	if l.Status != StatusStarted || l.CurrentRound != round || !l.SelectionPending() {
		return
	}

	word := l.WordOptions[rand.Intn(len(l.WordOptions))]
	s.log.Infof("lobby %s: selection timed out, auto-picked word", l.ID)
	s.beginRoundLocked(l, word, true)
	s.save(l)
}

// beginRoundLocked commits the word and starts the drawing phase: confirms
// the word to the drawer, announces the round to every member (word included
// only for the drawer), and arms the round countdown.
func (s *Service) beginRoundLocked(l *Lobby, word string, autoSelected bool) {
	l.CurrentWord = word
	l.WordOptions = nil

	s.registry.Send(l.CurrentDrawer, ws.EventWordSelected, WordSelectedPayload{
		ChosenWord:   word,
		AutoSelected: autoSelected,
	})

	for _, m := range l.Members {
		p := NewRoundPayload{
			CurrentRound:  l.CurrentRound,
			TotalRounds:   l.TotalRounds,
			CurrentDrawer: l.CurrentDrawer,
			IsDrawing:     m == l.CurrentDrawer,
			RoundTime:     l.RoundTime,
		}
		if m == l.CurrentDrawer {
			p.CurrentWord = word
		}
		s.registry.Send(m, ws.EventNewRound, p)
	}

	round := l.CurrentRound
	s.timers.StartRoundTimer(l.ID, l.RoundTime,
		func(remaining int) { s.broadcastTick(l.ID, remaining) },
		func() { s.finishRound(l.ID, round) },
	)

	s.record(l.ID, l.CurrentDrawer, "round_started", map[string]interface{}{
		"round":        round,
		"autoSelected": autoSelected,
	})
}

// broadcastTick pushes the remaining time to the lobby once per tick. Reads
// the stored document without the lobby lock; a slightly stale member list
// only affects who gets this one update.
func (s *Service) broadcastTick(lobbyID string, remaining int) {
	l, err := s.store.Load(context.Background(), lobbyID)
	if err != nil || l.Status != StatusStarted {
		return
	}
	s.registry.SendToAll(l.Members, ws.EventRoundTime, RoundTimePayload{TimeRemaining: remaining})
}

// finishRound is the countdown expiry path. It re-validates that the round
// it was armed for is still the one in progress; a round already ended by
// full guess coverage fails the guard and nothing happens twice.
func (s *Service) finishRound(lobbyID string, round int) {
	mu := s.lockFor(lobbyID)
	mu.Lock()
	defer mu.Unlock()

	l, err := s.store.Load(context.Background(), lobbyID)
	if err != nil {
		return
	}
	if l.Status != StatusStarted || l.CurrentRound != round || l.CurrentWord == "" {
		return
	}

	s.endRoundLocked(l)
	s.save(l)
}

// endRoundLocked closes the current round, reveals the word, and either
// deals the next round or finishes the game. Caller holds the lobby lock
// and saves afterwards.
func (s *Service) endRoundLocked(l *Lobby) {
	s.timers.CancelRoundTimer(l.ID)

	s.registry.SendToAll(l.Members, ws.EventRoundEnded, RoundEndedPayload{
		Word:   l.CurrentWord,
		Scores: l.Scores,
	})
	s.record(l.ID, "", "round_ended", map[string]interface{}{"round": l.CurrentRound})

	l.CurrentWord = ""
	l.WordOptions = nil
	l.CorrectGuessers = nil

	// The game is over once the finished round was the last one; dealing
	// another would push the counter past totalRounds.
	if l.CurrentRound >= l.TotalRounds {
		s.gameOverLocked(l)
		return
	}
	s.dealRoundLocked(l)
}

// gameOverLocked finishes the game and returns the lobby to the waiting
// phase so the host can start another one.
func (s *Service) gameOverLocked(l *Lobby) {
	s.timers.CancelAll(l.ID)

	s.registry.SendToAll(l.Members, ws.EventGameOver, GameOverPayload{FinalScores: l.Scores})
	s.record(l.ID, "", "game_over", map[string]interface{}{"scores": scoresPayload(l.Scores)})

	s.resetToWaiting(l)
	s.log.Infof("lobby %s: game over", l.ID)
}

// forceGameOverLocked aborts a running game that can no longer continue.
func (s *Service) forceGameOverLocked(l *Lobby, reason string) {
	s.timers.CancelAll(l.ID)

	s.registry.SendToAll(l.Members, ws.EventForcedOver, ForcedGameOverPayload{Message: reason})
	s.record(l.ID, "", "forced_game_over", map[string]interface{}{"reason": reason})

	s.resetToWaiting(l)
	s.log.Infof("lobby %s: game force-ended: %s", l.ID, reason)
}

func (s *Service) resetToWaiting(l *Lobby) {
	l.Status = StatusWaiting
	l.CurrentRound = 0
	l.TotalRounds = 0
	l.CurrentDrawer = ""
	l.CurrentWord = ""
	l.WordOptions = nil
	l.CorrectGuessers = nil
	l.ReadyPlayers = nil
	l.ChatHistory = nil
}

func scoresPayload(scores map[string]int) map[string]interface{} {
	out := make(map[string]interface{}, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	return out
}
