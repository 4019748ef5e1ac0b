package game

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/davidritter-dotcom/webe-backend/internal/ws"
)

// systemSender labels server-generated chat lines.
const systemSender = "System"

// pointsForGuess maps guess order (1-based) to awarded points.
func pointsForGuess(order int) int {
	switch order {
	case 1:
		return 5
	case 2:
		return 4
	case 3:
		return 3
	case 4:
		return 2
	default:
		return 1
	}
}

func (s *Service) guessHandler(op ws.EventType) ws.Handler {
	return func(identity string, raw json.RawMessage) {
		s.handleGuess(identity, op, raw)
	}
}

// handleGuess processes chat input. In a waiting lobby it is plain chat; in
// a running round it is evaluated as a guess at the current word.
func (s *Service) handleGuess(identity string, op ws.EventType, raw json.RawMessage) {
	var req GuessRequest
	_ = json.Unmarshal(raw, &req)

	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return
	}

	mu := s.lockFor(req.LobbyID)
	mu.Lock()
	defer mu.Unlock()

	l, ok := s.loadFor(identity, op, req.LobbyID)
	if !ok {
		return
	}
	if !l.HasMember(identity) {
		s.sendOpError(identity, op, CodeForbidden, "Not a member of this lobby.")
		return
	}

	if l.Status == StatusWaiting {
		s.registry.SendToAll(l.Members, ws.EventChatMessage, ChatEntry{UserID: identity, Message: msg})
		return
	}
	if l.CurrentWord == "" {
		s.sendOpError(identity, op, CodeInvalidState, "No active round to guess in.")
		return
	}
	if identity == l.CurrentDrawer {
		s.registry.Send(identity, ws.EventChatMessage, ChatEntry{
			UserID:  systemSender,
			Message: "You cannot chat while drawing.",
		})
		return
	}
	if l.HasGuessed(identity) {
		s.registry.Send(identity, ws.EventChatMessage, ChatEntry{
			UserID:  systemSender,
			Message: "You have already guessed the word.",
		})
		return
	}

	if strings.EqualFold(msg, l.CurrentWord) {
		s.applyCorrectGuessLocked(l, identity)
		s.save(l)
		return
	}

	line := ChatEntry{UserID: identity, Message: msg}
	l.ChatHistory = append(l.ChatHistory, line)
	s.registry.SendToAll(l.Members, ws.EventChatMessage, line)
	s.registry.SendToAll(l.Members, ws.EventScoreUpdate, ScoreUpdatePayload{
		Scores:         l.Scores,
		CorrectGuesses: l.CorrectGuessers,
	})
	s.save(l)
}

// applyCorrectGuessLocked awards points by guess order, announces the guess
// without leaking the word, and ends the round early once every non-drawer
// has it.
func (s *Service) applyCorrectGuessLocked(l *Lobby, identity string) {
	l.CorrectGuessers = append(l.CorrectGuessers, identity)
	points := pointsForGuess(len(l.CorrectGuessers))
	l.Scores[identity] += points

	announcement := ChatEntry{
		UserID:  systemSender,
		Message: fmt.Sprintf("%s has guessed the word! (+%d points)", identity, points),
	}
	l.ChatHistory = append(l.ChatHistory, announcement)

	for _, m := range l.Members {
		line := announcement
		if m == identity {
			line.Message = fmt.Sprintf("You have guessed the word! (+%d points)", points)
		}
		s.registry.Send(m, ws.EventChatMessage, line)
	}

	s.registry.SendToAll(l.Members, ws.EventScoreUpdate, ScoreUpdatePayload{
		Scores:         l.Scores,
		CorrectGuesses: l.CorrectGuessers,
	})
	s.record(l.ID, identity, "correct_guess", map[string]interface{}{
		"order":  len(l.CorrectGuessers),
		"points": points,
	})

	if l.AllGuessed() {
		s.endRoundLocked(l)
	}
}
