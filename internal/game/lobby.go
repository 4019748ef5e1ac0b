// Package game implements the lobby and round lifecycle: membership, the
// readiness gate, drawer rotation, word selection, guess scoring, and the
// timers that drive a round.
package game

import "time"

// Status is the lobby lifecycle phase.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusStarted Status = "started"
)

// ChatEntry is one delivered chat line of the current round.
type ChatEntry struct {
	UserID  string `bson:"userId" json:"userId"`
	Message string `bson:"message" json:"message"`
}

// Lobby is the persisted session aggregate. All mutation happens under the
// service's per-lobby lock via load-modify-save against the Store.
type Lobby struct {
	ID      string   `bson:"_id" json:"lobbyId"`
	Host    string   `bson:"host" json:"host"`
	Members []string `bson:"players" json:"players"`
	Status  Status   `bson:"status" json:"status"`

	CurrentRound int `bson:"currentRound" json:"currentRound"`
	TotalRounds  int `bson:"totalRounds" json:"totalRounds"`
	RoundTime    int `bson:"roundTime" json:"roundTime"`

	CurrentDrawer string   `bson:"currentDrawer" json:"currentDrawer"`
	CurrentWord   string   `bson:"currentWord" json:"-"`
	WordOptions   []string `bson:"wordOptions" json:"-"`

	Scores          map[string]int `bson:"scores" json:"scores"`
	CorrectGuessers []string       `bson:"correctGuessers" json:"-"`
	ReadyPlayers    []string       `bson:"readyPlayers" json:"-"`
	ChatHistory     []ChatEntry    `bson:"chatHistory" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

func (l *Lobby) HasMember(id string) bool {
	return contains(l.Members, id)
}

// RemoveMember drops id from the member list and returns whether it was
// present. The caller also removes the player's score entry; scores key
// exactly the current members.
func (l *Lobby) RemoveMember(id string) bool {
	for i, m := range l.Members {
		if m == id {
			l.Members = append(l.Members[:i], l.Members[i+1:]...)
			return true
		}
	}
	return false
}

// Drawer returns the member whose turn it is for the given round.
func (l *Lobby) Drawer(round int) string {
	if len(l.Members) == 0 {
		return ""
	}
	return l.Members[round%len(l.Members)]
}

// HasGuessed reports whether id already guessed the current word.
func (l *Lobby) HasGuessed(id string) bool {
	return contains(l.CorrectGuessers, id)
}

// AllGuessed reports whether every non-drawer member has guessed correctly.
func (l *Lobby) AllGuessed() bool {
	for _, m := range l.Members {
		if m != l.CurrentDrawer && !l.HasGuessed(m) {
			return false
		}
	}
	return len(l.Members) > 1
}

// AllReady reports whether every member passed the first-round readiness gate.
func (l *Lobby) AllReady() bool {
	for _, m := range l.Members {
		if !contains(l.ReadyPlayers, m) {
			return false
		}
	}
	return true
}

// SelectionPending reports whether the drawer has word candidates issued but
// no word chosen yet.
func (l *Lobby) SelectionPending() bool {
	return len(l.WordOptions) > 0 && l.CurrentWord == ""
}

// Clone deep-copies the aggregate so the memory store hands out independent
// documents, matching the load-fresh semantics of a real store.
func (l *Lobby) Clone() *Lobby {
	cp := *l
	cp.Members = append([]string(nil), l.Members...)
	cp.WordOptions = append([]string(nil), l.WordOptions...)
	cp.CorrectGuessers = append([]string(nil), l.CorrectGuessers...)
	cp.ReadyPlayers = append([]string(nil), l.ReadyPlayers...)
	cp.ChatHistory = append([]ChatEntry(nil), l.ChatHistory...)
	cp.Scores = make(map[string]int, len(l.Scores))
	for k, v := range l.Scores {
		cp.Scores[k] = v
	}
	return &cp
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
