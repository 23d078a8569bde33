// Package model defines the value types the simulation reduces over: the
// world snapshot, its entities, and the intents that mutate it. Everything
// here is plain data; rules live in the feature packages and the reducer.
package model

// Phase is the match lifecycle state.
type Phase string

const (
	PhaseLobby    Phase = "LOBBY"
	PhaseRunning  Phase = "RUNNING"
	PhaseGameOver Phase = "GAME_OVER"
)

// Resource names one ledger entry. BELIEF flows through the same ledger as the
// material resources but is additionally mirrored on Player.Belief.
type Resource string

const (
	ResourceFood   Resource = "FOOD"
	ResourceWood   Resource = "WOOD"
	ResourceStone  Resource = "STONE"
	ResourceGold   Resource = "GOLD"
	ResourceBelief Resource = "BELIEF"
)

// ResourceKinds fixes the canonical resource order for digests, loot transfer,
// and income application. Iterating the Resources map directly would make tick
// digests order-sensitive.
var ResourceKinds = []Resource{
	ResourceFood,
	ResourceWood,
	ResourceStone,
	ResourceGold,
	ResourceBelief,
}

// Stance selects the computer-player raid posture.
type Stance string

const (
	StanceAggressive Stance = "AGGRESSIVE"
	StanceDefensive  Stance = "DEFENSIVE"
	StancePassive    Stance = "PASSIVE"
)

// Power is a deity-power kind. BLESSED_HARVEST doubles worker output on the
// buffed settlement; INSPIRED_WORSHIP doubles worshipper belief generation.
type Power string

const (
	PowerBlessedHarvest  Power = "BLESSED_HARVEST"
	PowerInspiredWorship Power = "INSPIRED_WORSHIP"
)
