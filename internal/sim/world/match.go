package world

import (
	"fmt"

	"hexreign.gg/internal/sim/hexmap"
	"hexreign.gg/internal/sim/model"
)

// PlayerSpec seats one participant in a new match. An empty ID is filled
// with the seat number; an empty stance defaults to DEFENSIVE.
type PlayerSpec struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	NPC    bool         `json:"npc,omitempty"`
	Stance model.Stance `json:"stance,omitempty"`
}

// NewMatch generates the map for a seed and seats the players with their
// starting ledgers and the default policy. The result is a LOBBY snapshot
// at clock zero, waiting for starting settlements.
func (e *Engine) NewMatch(seed int64, specs []PlayerSpec) model.Snapshot {
	cfg := hexmap.DefaultGenConfig(seed)
	cfg.Radius = e.tun.Map.Radius
	cells := hexmap.Generate(cfg)

	s := model.Snapshot{
		Phase:     model.PhaseLobby,
		Seed:      seed,
		MapRadius: cfg.Radius,
		Tiles:     make([]model.Tile, len(cells)),
		Players:   make([]model.Player, len(specs)),
	}
	for i, c := range cells {
		s.Tiles[i] = model.Tile{ID: model.TileID(i), Coord: c.Coord, Terrain: c.Terrain}
	}
	for i, ps := range specs {
		res := make(map[model.Resource]float64, len(e.tun.StartResources))
		for k, v := range e.tun.StartResources {
			res[k] = v
		}
		id := ps.ID
		if id == "" {
			id = fmt.Sprintf("P%d", i+1)
		}
		stance := ps.Stance
		if stance == "" {
			stance = model.StanceDefensive
		}
		s.Players[i] = model.Player{
			ID:        id,
			Name:      ps.Name,
			NPC:       ps.NPC,
			Resources: res,
			Policy: model.Policy{
				WorkersPct:     e.tun.DefaultPolicy.WorkersPct,
				WorshippersPct: e.tun.DefaultPolicy.WorshippersPct,
				DefendersPct:   e.tun.DefaultPolicy.DefendersPct,
				Stance:         stance,
			},
		}
	}
	return s
}
