package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrLobbyNotFound)

	l := &Lobby{
		ID:      "l1",
		Host:    "alice",
		Members: []string{"alice", "bob"},
		Status:  StatusWaiting,
		Scores:  map[string]int{"alice": 0, "bob": 0},
	}
	require.NoError(t, s.Save(ctx, l))

	got, err := s.Load(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, l.Members, got.Members)

	// Loaded documents are private copies; mutating one must not bleed into
	// the stored state until saved.
	got.Members = append(got.Members, "carol")
	got.Scores["carol"] = 0

	again, err := s.Load(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, again.Members)
	assert.NotContains(t, again.Scores, "carol")

	require.NoError(t, s.Delete(ctx, "l1"))
	_, err = s.Load(ctx, "l1")
	assert.ErrorIs(t, err, ErrLobbyNotFound)

	assert.NoError(t, s.Delete(ctx, "l1"), "deleting a missing lobby is a no-op")
}
