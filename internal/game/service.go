package game

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/davidritter-dotcom/webe-backend/internal/journal"
	"github.com/davidritter-dotcom/webe-backend/internal/words"
	"github.com/davidritter-dotcom/webe-backend/internal/ws"
)

// Service drives every lobby through its lifecycle. It owns its registry,
// bus, store, and timer manager; nothing here is process-global, so tests
// run isolated instances side by side.
//
// Handlers serialize per lobby: each one takes the lobby's lock, loads the
// document, mutates, and saves. Timer callbacks take the same lock and
// re-validate the round they were armed for before acting.
type Service struct {
	log      *logrus.Logger
	registry *ws.Registry
	bus      *ws.Bus
	store    Store
	timers   *TimerManager
	words    *words.List
	journal  *journal.Publisher

	// RoundTicks and SelectionTicks are counts of timer ticks (seconds in
	// production) for a drawing round and the word-selection window.
	RoundTicks     int
	SelectionTicks int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(log *logrus.Logger, registry *ws.Registry, bus *ws.Bus, store Store, wordList *words.List, jrnl *journal.Publisher) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if wordList == nil {
		wordList = words.Default()
	}
	return &Service{
		log:            log,
		registry:       registry,
		bus:            bus,
		store:          store,
		timers:         NewTimerManager(),
		words:          wordList,
		journal:        jrnl,
		RoundTicks:     60,
		SelectionTicks: 10,
		locks:          make(map[string]*sync.Mutex),
	}
}

// Register subscribes all lobby and game handlers on the bus.
func (s *Service) Register() {
	s.bus.Subscribe(ws.EventCreateLobby, s.handleCreateLobby)
	s.bus.Subscribe(ws.EventJoinLobby, s.handleJoinLobby)
	s.bus.Subscribe(ws.EventLobbyStart, s.handleLobbyStart)
	s.bus.Subscribe(ws.EventPlayerReady, s.handlePlayerReady)
	s.bus.Subscribe(ws.EventWordChosen, s.handleWordChosen)

	s.bus.Subscribe(ws.EventGuessWord, s.guessHandler(ws.EventGuessWord))
	s.bus.Subscribe(ws.EventChatMessage, s.guessHandler(ws.EventChatMessage))

	s.bus.Subscribe(ws.EventLeaveLobby, s.leaveHandler(ws.EventLeaveLobby))
	s.bus.Subscribe(ws.EventLeaveGame, s.leaveHandler(ws.EventLeaveGame))

	for _, t := range []ws.EventType{ws.EventDrawData, ws.EventStartPath, ws.EventEndPath, ws.EventClearCanvas} {
		s.bus.Subscribe(t, s.relayHandler(t))
	}
}

// lockFor returns the serialization mutex for a lobby, creating it on first
// use.
func (s *Service) lockFor(lobbyID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.locks[lobbyID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[lobbyID] = mu
	}
	return mu
}

func (s *Service) dropLock(lobbyID string) {
	s.mu.Lock()
	delete(s.locks, lobbyID)
	s.mu.Unlock()
}

// loadFor loads a lobby for an inbound operation, reporting NOT_FOUND or a
// missing lobbyId back to the caller.
func (s *Service) loadFor(identity string, op ws.EventType, lobbyID string) (*Lobby, bool) {
	if lobbyID == "" {
		s.sendOpError(identity, op, CodeInvalidState, "Missing lobbyId.")
		return nil, false
	}
	l, err := s.store.Load(context.Background(), lobbyID)
	if err != nil {
		s.sendOpError(identity, op, CodeNotFound, "Lobby not found.")
		return nil, false
	}
	return l, true
}

func (s *Service) save(l *Lobby) {
	if err := s.store.Save(context.Background(), l); err != nil {
		s.log.Errorf("lobby %s: save failed: %v", l.ID, err)
	}
}

func (s *Service) sendOpError(identity string, op ws.EventType, code, msg string) {
	if c, ok := s.registry.Get(identity); ok {
		c.SendOpError(op, code, msg)
	}
}

// record journals a game action, best effort, off the hot path.
func (s *Service) record(lobbyID, actor, action string, payload map[string]interface{}) {
	if s.journal == nil {
		return
	}
	rec := journal.Record{
		LobbyID:   lobbyID,
		ActorID:   actor,
		Action:    action,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
	go s.journal.Publish(context.Background(), rec)
}

func (s *Service) handleCreateLobby(identity string, _ json.RawMessage) {
	l := &Lobby{
		ID:        uuid.NewString(),
		Host:      identity,
		Members:   []string{identity},
		Status:    StatusWaiting,
		RoundTime: s.RoundTicks,
		Scores:    map[string]int{identity: 0},
		CreatedAt: time.Now().UTC(),
	}

	mu := s.lockFor(l.ID)
	mu.Lock()
	defer mu.Unlock()

	s.save(l)
	s.registry.Send(identity, ws.EventLobbyCreated, LobbyCreatedPayload{LobbyID: l.ID})
	s.broadcastLobbyUpdate(l)
	s.record(l.ID, identity, "lobby_created", nil)
	s.log.Infof("lobby %s created by %s", l.ID, identity)
}

func (s *Service) handleJoinLobby(identity string, raw json.RawMessage) {
	var req JoinLobbyRequest
	_ = json.Unmarshal(raw, &req)

	mu := s.lockFor(req.LobbyID)
	mu.Lock()
	defer mu.Unlock()

	l, ok := s.loadFor(identity, ws.EventJoinLobby, req.LobbyID)
	if !ok {
		return
	}
	if l.HasMember(identity) {
		// Rejoin of an existing member is a resync, not an error.
		s.broadcastLobbyUpdate(l)
		return
	}
	if l.Status == StatusStarted {
		s.sendOpError(identity, ws.EventJoinLobby, CodeAlreadyStarted, "Game has already started.")
		return
	}

	l.Members = append(l.Members, identity)
	l.Scores[identity] = 0
	s.save(l)
	s.broadcastLobbyUpdate(l)
	s.record(l.ID, identity, "player_joined", nil)
}

func (s *Service) handleLobbyStart(identity string, raw json.RawMessage) {
	var req LobbyStartRequest
	_ = json.Unmarshal(raw, &req)

	mu := s.lockFor(req.LobbyID)
	mu.Lock()
	defer mu.Unlock()

	l, ok := s.loadFor(identity, ws.EventLobbyStart, req.LobbyID)
	if !ok {
		return
	}
	if identity != l.Host {
		s.sendOpError(identity, ws.EventLobbyStart, CodeForbidden, "Only the host can start the game.")
		return
	}
	if l.Status == StatusStarted {
		s.sendOpError(identity, ws.EventLobbyStart, CodeAlreadyStarted, "Game has already started.")
		return
	}
	if len(l.Members) < 2 {
		s.sendOpError(identity, ws.EventLobbyStart, CodeInvalidState, "Need at least 2 players to start.")
		return
	}

	rounds := req.Rounds
	if rounds <= 0 {
		rounds = 2 * len(l.Members)
	}

	l.Status = StatusStarted
	l.TotalRounds = rounds
	l.CurrentRound = 0
	l.CurrentDrawer = ""
	l.CurrentWord = ""
	l.WordOptions = nil
	l.CorrectGuessers = nil
	l.ReadyPlayers = nil
	l.ChatHistory = nil
	for _, m := range l.Members {
		l.Scores[m] = 0
	}

	s.save(l)
	s.registry.SendToAll(l.Members, ws.EventGameStarted, nil)
	s.record(l.ID, identity, "game_started", map[string]interface{}{"rounds": rounds})
	s.log.Infof("lobby %s: game started, %d rounds", l.ID, rounds)
}

// handlePlayerReady serves two purposes: before the first round it is the
// readiness gate, mid-game it is a resync request from a reconnected player.
func (s *Service) handlePlayerReady(identity string, raw json.RawMessage) {
	var req PlayerReadyRequest
	_ = json.Unmarshal(raw, &req)

	mu := s.lockFor(req.LobbyID)
	mu.Lock()
	defer mu.Unlock()

	l, ok := s.loadFor(identity, ws.EventPlayerReady, req.LobbyID)
	if !ok {
		return
	}
	if !l.HasMember(identity) {
		s.sendOpError(identity, ws.EventPlayerReady, CodeForbidden, "Not a member of this lobby.")
		return
	}
	if l.Status != StatusStarted {
		s.sendOpError(identity, ws.EventPlayerReady, CodeInvalidState, "Game has not started.")
		return
	}

	// Once the first round has been dealt the counter is past zero and a
	// ready signal is a resync request, not a gate vote.
	if l.CurrentRound > 0 {
		s.registry.Send(identity, ws.EventGameState, s.statePayload(l, identity))
		return
	}

	if !contains(l.ReadyPlayers, identity) {
		l.ReadyPlayers = append(l.ReadyPlayers, identity)
	}
	if l.AllReady() {
		s.dealRoundLocked(l)
	}
	s.save(l)
}

func (s *Service) handleWordChosen(identity string, raw json.RawMessage) {
	var req WordChosenRequest
	_ = json.Unmarshal(raw, &req)

	mu := s.lockFor(req.LobbyID)
	mu.Lock()
	defer mu.Unlock()

	l, ok := s.loadFor(identity, ws.EventWordChosen, req.LobbyID)
	if !ok {
		return
	}
	if !l.SelectionPending() {
		s.sendOpError(identity, ws.EventWordChosen, CodeInvalidState, "No word selection in progress.")
		return
	}
	if identity != l.CurrentDrawer {
		s.sendOpError(identity, ws.EventWordChosen, CodeForbidden, "Only the drawer picks the word.")
		return
	}
	if !contains(l.WordOptions, req.Word) {
		s.sendOpError(identity, ws.EventWordChosen, CodeInvalidState, "Word is not one of the offered options.")
		return
	}

	s.timers.CancelSelectionTimeout(l.ID)
	s.beginRoundLocked(l, req.Word, false)
	s.save(l)
}

func (s *Service) leaveHandler(op ws.EventType) ws.Handler {
	return func(identity string, raw json.RawMessage) {
		s.handleLeave(identity, op, raw)
	}
}

func (s *Service) handleLeave(identity string, op ws.EventType, raw json.RawMessage) {
	var req LeaveRequest
	_ = json.Unmarshal(raw, &req)

	mu := s.lockFor(req.LobbyID)
	mu.Lock()
	defer mu.Unlock()

	l, ok := s.loadFor(identity, op, req.LobbyID)
	if !ok {
		return
	}
	if !l.RemoveMember(identity) {
		s.sendOpError(identity, op, CodeForbidden, "Not a member of this lobby.")
		return
	}
	delete(l.Scores, identity)
	for i, r := range l.ReadyPlayers {
		if r == identity {
			l.ReadyPlayers = append(l.ReadyPlayers[:i], l.ReadyPlayers[i+1:]...)
			break
		}
	}

	s.registry.Send(identity, ws.EventLobbyLeft, LobbyLeftPayload{LobbyID: l.ID})
	s.record(l.ID, identity, "player_left", nil)

	if len(l.Members) == 0 {
		s.timers.CancelAll(l.ID)
		if err := s.store.Delete(context.Background(), l.ID); err != nil {
			s.log.Errorf("lobby %s: delete failed: %v", l.ID, err)
		}
		s.dropLock(l.ID)
		s.record(l.ID, identity, "lobby_deleted", nil)
		s.log.Infof("lobby %s deleted, last member left", l.ID)
		return
	}

	if l.Host == identity {
		l.Host = l.Members[0]
	}

	if l.Status == StatusStarted && len(l.Members) < 2 {
		s.forceGameOverLocked(l, "Not enough players to continue.")
		s.save(l)
		return
	}

	if l.Status == StatusStarted && l.CurrentDrawer == identity {
		l.CurrentDrawer = l.Members[0]
		if l.SelectionPending() {
			s.registry.Send(l.CurrentDrawer, ws.EventWordChoices, WordChoicesPayload{
				WordOptions:    l.WordOptions,
				TimeoutSeconds: s.SelectionTicks,
			})
		} else if l.CurrentWord != "" {
			// The inherited drawer has never seen the word; resync them.
			s.registry.Send(l.CurrentDrawer, ws.EventGameState, s.statePayload(l, l.CurrentDrawer))
		}
	}

	s.registry.SendToAll(l.Members, ws.EventPlayerLeft, PlayerLeftPayload{
		PlayerID:      identity,
		Players:       l.Members,
		Host:          l.Host,
		CurrentDrawer: l.CurrentDrawer,
	})

	// A departure can leave every remaining guesser already correct.
	if l.Status == StatusStarted && l.CurrentWord != "" && l.AllGuessed() {
		s.endRoundLocked(l)
	}

	s.save(l)
}

func (s *Service) broadcastLobbyUpdate(l *Lobby) {
	for _, m := range l.Members {
		s.registry.Send(m, ws.EventLobbyUpdated, LobbyUpdatedPayload{
			LobbyID: l.ID,
			Players: l.Members,
			Host:    l.Host,
			IsHost:  m == l.Host,
		})
	}
}

func (s *Service) statePayload(l *Lobby, viewer string) GameStatePayload {
	p := GameStatePayload{
		LobbyID:        l.ID,
		Players:        l.Members,
		Host:           l.Host,
		Status:         l.Status,
		CurrentRound:   l.CurrentRound,
		TotalRounds:    l.TotalRounds,
		RoundTime:      l.RoundTime,
		CurrentDrawer:  l.CurrentDrawer,
		IsDrawing:      viewer == l.CurrentDrawer,
		Scores:         l.Scores,
		CorrectGuesses: l.CorrectGuessers,
		ChatHistory:    l.ChatHistory,
	}
	if viewer == l.CurrentDrawer {
		p.CurrentWord = l.CurrentWord
	}
	return p
}
