package protocol

import "encoding/json"

// CREATE_ROOM (host -> relay): open a room and become its authority.
type CreateRoomMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Name            string `json:"name,omitempty"`
}

// ROOM (relay -> host): the room is open under this code.
type RoomMsg struct {
	Type   string `json:"type"`
	Code   string `json:"code"`
	PeerID string `json:"peer_id"`
}

// JOIN_ROOM (client -> relay): join an open room by code.
type JoinRoomMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Name            string `json:"name,omitempty"`
}

// JOINED (relay -> client): seat granted.
type JoinedMsg struct {
	Type   string `json:"type"`
	Code   string `json:"code"`
	PeerID string `json:"peer_id"`
	HostID string `json:"host_id"`
}

// PEER_JOINED / PEER_LEFT (relay -> room): membership change. The same
// shape serves both types.
type PeerEventMsg struct {
	Type   string `json:"type"`
	PeerID string `json:"peer_id"`
	Name   string `json:"name,omitempty"`
}

// ROOM_CLOSED (relay -> room): the room is gone, usually because its host
// disconnected.
type RoomClosedMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason,omitempty"`
}

// SEND (peer -> relay): forward an opaque payload. An empty To broadcasts
// to every other peer in the room.
type SendMsg struct {
	Type    string          `json:"type"`
	To      string          `json:"to,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// FORWARD (relay -> peer): a payload relayed from another peer.
type ForwardMsg struct {
	Type    string          `json:"type"`
	From    string          `json:"from"`
	Payload json.RawMessage `json:"payload"`
}

// ERROR (relay -> peer).
type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
