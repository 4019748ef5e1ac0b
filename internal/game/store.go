package game

import "context"

// Store is the persistence contract for lobbies. Implementations must return
// ErrLobbyNotFound from Load when the id is unknown; Save upserts the full
// document; Delete of a missing lobby is a no-op.
type Store interface {
	Load(ctx context.Context, id string) (*Lobby, error)
	Save(ctx context.Context, l *Lobby) error
	Delete(ctx context.Context, id string) error
}
