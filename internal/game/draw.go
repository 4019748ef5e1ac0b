package game

import (
	"encoding/json"

	"github.com/davidritter-dotcom/webe-backend/internal/ws"
)

// relayHandler fans a drawing event out verbatim to every registered
// connection except the sender. Stroke payloads are opaque to the server;
// they are never parsed, validated, or stored.
func (s *Service) relayHandler(t ws.EventType) ws.Handler {
	return func(identity string, raw json.RawMessage) {
		s.registry.Broadcast(t, DrawRelayPayload{From: identity, Data: raw}, identity)
	}
}
