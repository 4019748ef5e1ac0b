// Package ws carries the websocket-facing primitives of the session server:
// the per-player connection handle, the connection registry, and the event
// bus the game service subscribes its handlers on.
package ws

import "encoding/json"

// EventType names a message on the wire. Lobby and game lifecycle events are
// SCREAMING_CASE; high-frequency relays (drawing, chat) are lower case.
type EventType string

const (
	EventCreateLobby EventType = "CREATE_LOBBY"
	EventJoinLobby   EventType = "JOIN_LOBBY"
	EventLeaveLobby  EventType = "LEAVE_LOBBY"
	EventLeaveGame   EventType = "LEAVE_GAME"
	EventPlayerReady EventType = "PLAYER_READY"
	EventLobbyStart  EventType = "LOBBY_START"
	EventGuessWord   EventType = "GUESS_WORD"
	EventWordChosen  EventType = "WORD_CHOSEN"

	EventLobbyCreated EventType = "LOBBY_CREATED"
	EventLobbyUpdated EventType = "LOBBY_UPDATED"
	EventLobbyLeft    EventType = "LOBBY_LEFT"
	EventPlayerLeft   EventType = "PLAYER_LEFT"
	EventGameStarted  EventType = "GAME_STARTED"
	EventGameState    EventType = "GAME_STATE"
	EventNewRound     EventType = "NEW_ROUND"
	EventRoundTime    EventType = "ROUND_TIME_UPDATE"
	EventWordChoices  EventType = "WORD_CHOICES"
	EventWordSelected EventType = "WORD_SELECTED_CONFIRMATION"
	EventScoreUpdate  EventType = "SCORE_UPDATE"
	EventRoundEnded   EventType = "ROUND_ENDED"
	EventGameOver     EventType = "GAME_OVER"
	EventForcedOver   EventType = "FORCED_GAME_OVER"

	EventChatMessage EventType = "chat_message"
	EventDrawData    EventType = "draw_data"
	EventStartPath   EventType = "start_path"
	EventEndPath     EventType = "end_path"
	EventClearCanvas EventType = "clear_canvas"

	EventPing EventType = "ping"
	EventPong EventType = "pong"

	EventError EventType = "ERROR"
)

// Envelope is the framing for every message in both directions.
type Envelope struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// InboundEnvelope defers payload decoding so each handler can unmarshal its
// own shape.
type InboundEnvelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ErrorPayload is the body of ERROR and <OP>_ERROR events.
type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// OpError derives the error event name for a failed inbound operation, e.g.
// JOIN_LOBBY -> JOIN_LOBBY_ERROR.
func OpError(op EventType) EventType {
	return op + "_ERROR"
}
