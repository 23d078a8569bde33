package protocol

import "encoding/json"

const Version = "1.0"

// Relay envelope types (peer <-> relay).
const (
	TypeCreateRoom = "CREATE_ROOM"
	TypeJoinRoom   = "JOIN_ROOM"
	TypeRoom       = "ROOM"
	TypeJoined     = "JOINED"
	TypePeerJoined = "PEER_JOINED"
	TypePeerLeft   = "PEER_LEFT"
	TypeRoomClosed = "ROOM_CLOSED"
	TypeSend       = "SEND"
	TypeForward    = "FORWARD"
	TypeError      = "ERROR"
)

// Game payload types, tunneled opaquely through SEND/FORWARD. The relay
// never inspects these; only hosts and clients do.
const (
	TypeWelcome = "WELCOME"
	TypeState   = "STATE"
	TypeIntent  = "INTENT"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
