package protocol

// Relay-layer error codes. Simulation rejections carry their own codes in
// the reducer's outcome; these cover transport and room routing only.
const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrVersion         = "E_VERSION"

	// Room routing/state.
	ErrRoomNotFound = "E_ROOM_NOT_FOUND"
	ErrRoomClosed   = "E_ROOM_CLOSED"
	ErrPeerNotFound = "E_PEER_NOT_FOUND"

	ErrRateLimit = "E_RATE_LIMIT"
	ErrInternal  = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrVersion:         {},
	ErrRoomNotFound:    {},
	ErrRoomClosed:      {},
	ErrPeerNotFound:    {},
	ErrRateLimit:       {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
