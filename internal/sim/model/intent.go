package model

// IntentKind discriminates which payload fields an intent carries.
type IntentKind string

const (
	IntentAdvanceTime       IntentKind = "ADVANCE_TIME"
	IntentPlaceStart        IntentKind = "PLACE_STARTING_SETTLEMENT"
	IntentBuildSettlement   IntentKind = "BUILD_SETTLEMENT"
	IntentAllocateRoles     IntentKind = "ALLOCATE_ROLES"
	IntentSetPolicy         IntentKind = "SET_POLICY"
	IntentUseDeityPower     IntentKind = "USE_DEITY_POWER"
	IntentUpgradeSettlement IntentKind = "UPGRADE_SETTLEMENT"
	IntentRaidSettlement    IntentKind = "RAID_SETTLEMENT"
)

// Intent is one externally supplied unit of change. Payload fields are flat
// with omitempty; each kind reads only its own subset. TimeMs is the sender's
// clock report, used only to advance the snapshot clock monotonically — never
// to order intents across clients.
type Intent struct {
	ID       string     `json:"id,omitempty"`
	PlayerID string     `json:"player_id"`
	Kind     IntentKind `json:"kind"`
	TimeMs   int64      `json:"time_ms,omitempty"`

	DeltaMs        int64  `json:"delta_ms,omitempty"`        // ADVANCE_TIME
	TileID         string `json:"tile_id,omitempty"`         // PLACE_STARTING_SETTLEMENT, BUILD_SETTLEMENT
	SettlementID   string `json:"settlement_id,omitempty"`   // ALLOCATE_ROLES, USE_DEITY_POWER, UPGRADE_SETTLEMENT
	WorkersPct     int    `json:"workers_pct,omitempty"`     // ALLOCATE_ROLES, SET_POLICY
	WorshippersPct int    `json:"worshippers_pct,omitempty"` // ALLOCATE_ROLES, SET_POLICY
	DefendersPct   int    `json:"defenders_pct,omitempty"`   // ALLOCATE_ROLES, SET_POLICY
	Stance         Stance `json:"stance,omitempty"`          // SET_POLICY
	Power          Power  `json:"power,omitempty"`           // USE_DEITY_POWER
	FromID         string `json:"from_id,omitempty"`         // RAID_SETTLEMENT source
	TargetID       string `json:"target_id,omitempty"`       // RAID_SETTLEMENT target
	CommitPct      int    `json:"commit_pct,omitempty"`      // RAID_SETTLEMENT share of defenders sent
}
