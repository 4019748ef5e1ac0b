package game

import "encoding/json"

// Inbound payload shapes.

type JoinLobbyRequest struct {
	LobbyID string `json:"lobbyId"`
}

type LobbyStartRequest struct {
	LobbyID string `json:"lobbyId"`
	Rounds  int    `json:"rounds"`
}

type PlayerReadyRequest struct {
	LobbyID string `json:"lobbyId"`
}

type WordChosenRequest struct {
	LobbyID string `json:"lobbyId"`
	Word    string `json:"word"`
}

type GuessRequest struct {
	LobbyID string `json:"lobbyId"`
	Message string `json:"message"`
}

type LeaveRequest struct {
	LobbyID string `json:"lobbyId"`
}

// Outbound payload shapes.

type LobbyCreatedPayload struct {
	LobbyID string `json:"lobbyId"`
}

type LobbyUpdatedPayload struct {
	LobbyID string   `json:"lobbyId"`
	Players []string `json:"players"`
	Host    string   `json:"host"`
	IsHost  bool     `json:"isHost"`
}

type NewRoundPayload struct {
	CurrentRound  int    `json:"currentRound"`
	TotalRounds   int    `json:"totalRounds"`
	CurrentDrawer string `json:"currentDrawer"`
	IsDrawing     bool   `json:"isDrawing"`
	CurrentWord   string `json:"currentWord,omitempty"`
	RoundTime     int    `json:"roundTime"`
}

type RoundTimePayload struct {
	TimeRemaining int `json:"timeRemaining"`
}

type WordChoicesPayload struct {
	WordOptions    []string `json:"wordOptions"`
	TimeoutSeconds int      `json:"timeoutSeconds"`
}

type WordSelectedPayload struct {
	ChosenWord   string `json:"chosenWord"`
	AutoSelected bool   `json:"autoSelected,omitempty"`
}

type ScoreUpdatePayload struct {
	Scores         map[string]int `json:"scores"`
	CorrectGuesses []string       `json:"correctGuesses"`
}

type RoundEndedPayload struct {
	Word   string         `json:"word"`
	Scores map[string]int `json:"scores"`
}

type GameOverPayload struct {
	FinalScores map[string]int `json:"finalScores"`
}

type ForcedGameOverPayload struct {
	Message string `json:"message"`
}

type PlayerLeftPayload struct {
	PlayerID      string   `json:"playerId"`
	Players       []string `json:"players"`
	Host          string   `json:"host"`
	CurrentDrawer string   `json:"currentDrawer,omitempty"`
}

type LobbyLeftPayload struct {
	LobbyID string `json:"lobbyId"`
}

// GameStatePayload is the mid-game resync snapshot. The active word is
// included only when the receiving player is the drawer.
type GameStatePayload struct {
	LobbyID        string         `json:"lobbyId"`
	Players        []string       `json:"players"`
	Host           string         `json:"host"`
	Status         Status         `json:"status"`
	CurrentRound   int            `json:"currentRound"`
	TotalRounds    int            `json:"totalRounds"`
	RoundTime      int            `json:"roundTime"`
	CurrentDrawer  string         `json:"currentDrawer"`
	IsDrawing      bool           `json:"isDrawing"`
	CurrentWord    string         `json:"currentWord,omitempty"`
	Scores         map[string]int `json:"scores"`
	CorrectGuesses []string       `json:"correctGuesses"`
	ChatHistory    []ChatEntry    `json:"chatHistory"`
}

// DrawRelayPayload wraps a drawing event with its sender; the stroke data
// itself passes through untouched.
type DrawRelayPayload struct {
	From string          `json:"from"`
	Data json.RawMessage `json:"data"`
}
