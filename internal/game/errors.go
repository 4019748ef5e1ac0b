package game

import "errors"

// Error codes carried in <OP>_ERROR payloads.
const (
	CodeNotFound       = "NOT_FOUND"
	CodeForbidden      = "FORBIDDEN"
	CodeInvalidState   = "INVALID_STATE"
	CodeAlreadyStarted = "ALREADY_STARTED"
)

// ErrLobbyNotFound is returned by Store implementations when no lobby exists
// under the requested id.
var ErrLobbyNotFound = errors.New("lobby not found")
