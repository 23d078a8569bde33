package protocol

import (
	"encoding/json"

	"hexreign.gg/internal/sim/model"
)

// WELCOME (host -> joining peer): seat assignment and match parameters.
type WelcomeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	PlayerID        string `json:"player_id"`
	Seed            int64  `json:"seed"`
	MapRadius       int    `json:"map_radius"`
	TickMs          int64  `json:"tick_ms"`
}

// STATE (host -> peers): the full authoritative snapshot. Clients render it
// and must never mutate it in place.
type StateMsg struct {
	Type     string          `json:"type"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// INTENT (peer -> host): one requested change.
type IntentMsg struct {
	Type   string       `json:"type"`
	Intent model.Intent `json:"intent"`
}
