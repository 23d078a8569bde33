package model

import (
	"fmt"

	"hexreign.gg/internal/sim/hexmap"
)

// Tile is one hex of the match map. Terrain never changes after generation;
// SettlementID and ControllerID are the mutable occupancy and territory marks.
type Tile struct {
	ID           string         `json:"id"`
	Coord        hexmap.Coord   `json:"coord"`
	Terrain      hexmap.Terrain `json:"terrain"`
	SettlementID string         `json:"settlement_id,omitempty"`
	ControllerID string         `json:"controller_id,omitempty"`
}

// Settlement occupies exactly one tile. Workers+Worshippers+Defenders always
// equals Population; the allocator maintains that invariant.
type Settlement struct {
	ID             string  `json:"id"`
	OwnerID        string  `json:"owner_id"`
	TileID         string  `json:"tile_id"`
	Level          int     `json:"level"`
	Population     int     `json:"population"`
	PopulationCap  int     `json:"population_cap"`
	GrowthProgress float64 `json:"growth_progress"`
	Workers        int     `json:"workers"`
	Worshippers    int     `json:"worshippers"`
	Defenders      int     `json:"defenders"`
}

// Policy is a player's standing role split (percentages, clamped to 0..100)
// and raid stance. The auto-reallocator applies the split to every settlement
// the player owns on each time advance.
type Policy struct {
	WorkersPct     int    `json:"workers_pct"`
	WorshippersPct int    `json:"worshippers_pct"`
	DefendersPct   int    `json:"defenders_pct"`
	Stance         Stance `json:"stance"`
}

// Player is a participant, human or computer-controlled. Belief mirrors
// Resources[BELIEF]; MaxBeliefEver is the historical high-water mark.
type Player struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	NPC           bool                 `json:"npc,omitempty"`
	Resources     map[Resource]float64 `json:"resources"`
	VictoryPoints int                  `json:"victory_points"`
	Belief        float64              `json:"belief"`
	MaxBeliefEver float64              `json:"max_belief_ever"`
	Policy        Policy               `json:"policy"`
}

// Buff is a timed deity-power effect on a settlement. It exists until a time
// advance moves the clock to or past ExpiresAtMs.
type Buff struct {
	ID           string `json:"id"`
	SettlementID string `json:"settlement_id"`
	OwnerID      string `json:"owner_id"`
	Power        Power  `json:"power"`
	ExpiresAtMs  int64  `json:"expires_at_ms"`
}

// Counters generate entity IDs. They live inside the snapshot so that a
// serialized match resumes with the same ID sequence it would have produced
// uninterrupted.
type Counters struct {
	NextSettlement uint64 `json:"next_settlement"`
	NextBuff       uint64 `json:"next_buff"`
}

// SettlementID mints the next settlement identity.
func (c *Counters) SettlementID() string {
	c.NextSettlement++
	return fmt.Sprintf("S%03d", c.NextSettlement)
}

// BuffID mints the next buff identity.
func (c *Counters) BuffID() string {
	c.NextBuff++
	return fmt.Sprintf("B%04d", c.NextBuff)
}

// TileID formats the identity for the tile at slice index i. Tiles are minted
// once at map generation, so no counter is needed.
func TileID(i int) string {
	return fmt.Sprintf("H%04d", i)
}
