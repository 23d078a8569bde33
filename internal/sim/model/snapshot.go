package model

import "hexreign.gg/internal/sim/hexmap"

// Snapshot is the sole unit of world truth. The reducer never mutates one in
// place: it clones, edits the clone, and returns it. Entities live in slices,
// not maps, so iteration order (and therefore the tick digest) is stable.
type Snapshot struct {
	Phase     Phase `json:"phase"`
	ClockMs   int64 `json:"clock_ms"`
	Seed      int64 `json:"seed"`
	MapRadius int   `json:"map_radius"`

	Tiles       []Tile       `json:"tiles"`
	Settlements []Settlement `json:"settlements"`
	Players     []Player     `json:"players"`
	Buffs       []Buff       `json:"buffs"`

	WinnerID string   `json:"winner_id,omitempty"`
	Counters Counters `json:"counters"`
}

// Clone deep-copies the snapshot. Tiles, settlements, and buffs hold no
// reference types, so copying their slices is enough; player resource maps
// need element-wise copies.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Tiles = append([]Tile(nil), s.Tiles...)
	out.Settlements = append([]Settlement(nil), s.Settlements...)
	out.Buffs = append([]Buff(nil), s.Buffs...)
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		out.Players[i] = p
		res := make(map[Resource]float64, len(p.Resources))
		for k, v := range p.Resources {
			res[k] = v
		}
		out.Players[i].Resources = res
	}
	return out
}

// Tile returns a pointer into the snapshot's tile slice, or nil.
func (s *Snapshot) Tile(id string) *Tile {
	for i := range s.Tiles {
		if s.Tiles[i].ID == id {
			return &s.Tiles[i]
		}
	}
	return nil
}

// TileAt returns the tile at an axial coordinate, or nil.
func (s *Snapshot) TileAt(c hexmap.Coord) *Tile {
	for i := range s.Tiles {
		if s.Tiles[i].Coord == c {
			return &s.Tiles[i]
		}
	}
	return nil
}

// Settlement returns a pointer into the snapshot's settlement slice, or nil.
func (s *Snapshot) Settlement(id string) *Settlement {
	for i := range s.Settlements {
		if s.Settlements[i].ID == id {
			return &s.Settlements[i]
		}
	}
	return nil
}

// Player returns a pointer into the snapshot's player slice, or nil.
func (s *Snapshot) Player(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// OwnsSettlement reports whether the player owns at least one settlement.
func (s *Snapshot) OwnsSettlement(playerID string) bool {
	for i := range s.Settlements {
		if s.Settlements[i].OwnerID == playerID {
			return true
		}
	}
	return false
}

// BuffsOn returns the active buffs attached to a settlement, in snapshot order.
func (s *Snapshot) BuffsOn(settlementID string) []Buff {
	var out []Buff
	for _, b := range s.Buffs {
		if b.SettlementID == settlementID {
			out = append(out, b)
		}
	}
	return out
}

// ControlledTiles counts the tiles a player currently controls.
func (s *Snapshot) ControlledTiles(playerID string) int {
	n := 0
	for i := range s.Tiles {
		if s.Tiles[i].ControllerID == playerID {
			n++
		}
	}
	return n
}

// AddResource adjusts a player ledger entry, clamping at zero and keeping the
// Belief mirror and its high-water mark in sync.
func (p *Player) AddResource(kind Resource, amount float64) {
	v := p.Resources[kind] + amount
	if v < 0 {
		v = 0
	}
	p.Resources[kind] = v
	if kind == ResourceBelief {
		p.Belief = v
		if v > p.MaxBeliefEver {
			p.MaxBeliefEver = v
		}
	}
}

// CanAfford reports whether every cost entry is covered by the ledger.
func (p *Player) CanAfford(cost map[Resource]float64) bool {
	for k, v := range cost {
		if p.Resources[k] < v {
			return false
		}
	}
	return true
}

// Spend deducts a cost previously checked with CanAfford.
func (p *Player) Spend(cost map[Resource]float64) {
	for k, v := range cost {
		p.AddResource(k, -v)
	}
}
