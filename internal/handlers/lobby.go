package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/davidritter-dotcom/webe-backend/internal/auth"
	"github.com/davidritter-dotcom/webe-backend/internal/game"
)

// lobbyView is the public projection of a lobby. The active word and other
// round internals stay server-side.
type lobbyView struct {
	LobbyID      string      `json:"lobbyId"`
	Host         string      `json:"host"`
	Players      []string    `json:"players"`
	Status       game.Status `json:"status"`
	CurrentRound int         `json:"currentRound"`
	TotalRounds  int         `json:"totalRounds"`
}

// GetLobbyHandler serves GET /lobby/{id} for authenticated clients.
func GetLobbyHandler(logger *logrus.Logger, store game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			http.Error(w, "missing credentials", http.StatusUnauthorized)
			return
		}
		if _, err := auth.AuthenticateJWT(token); err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "id")
		l, err := store.Load(r.Context(), id)
		if err != nil {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(lobbyView{
			LobbyID:      l.ID,
			Host:         l.Host,
			Players:      l.Members,
			Status:       l.Status,
			CurrentRound: l.CurrentRound,
			TotalRounds:  l.TotalRounds,
		})
		if err != nil {
			logger.Warnf("failed to encode lobby %s: %v", id, err)
		}
	}
}
