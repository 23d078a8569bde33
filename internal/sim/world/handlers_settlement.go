package world

import (
	"hexreign.gg/internal/sim/hexmap"
	"hexreign.gg/internal/sim/model"
)

// handlePlaceStart drops a player's one-time starting settlement. Allowed
// while the lobby is open and, for late joiners and computer players, during
// the running phase as well. The last missing human placement flips the
// match to RUNNING.
func handlePlaceStart(e *Engine, s *model.Snapshot, in model.Intent) model.Outcome {
	if s.Phase == model.PhaseGameOver {
		return model.Rejected(model.ErrPhase, "match is over")
	}
	p := s.Player(in.PlayerID)
	if p == nil {
		return model.Rejected(model.ErrBadRequest, "unknown player")
	}
	if s.OwnsSettlement(p.ID) {
		return model.Rejected(model.ErrBadRequest, "starting settlement already placed")
	}
	t := s.Tile(in.TileID)
	if t == nil {
		return model.Rejected(model.ErrInvalidTarget, "no such tile")
	}
	if !t.Terrain.Buildable() {
		return model.Rejected(model.ErrInvalidTarget, "cannot settle on water")
	}
	if t.SettlementID != "" {
		return model.Rejected(model.ErrOccupied, "tile already settled")
	}

	cfg := e.tun.Settlement
	st := model.Settlement{
		ID:            s.Counters.SettlementID(),
		OwnerID:       p.ID,
		TileID:        t.ID,
		Level:         1,
		Population:    cfg.StartPopulation,
		PopulationCap: cfg.PopulationCap(1),
		Workers:       cfg.StartWorkers,
		Worshippers:   cfg.StartWorshippers,
		Defenders:     cfg.StartDefenders,
	}
	s.Settlements = append(s.Settlements, st)
	t.SettlementID = st.ID
	p.VictoryPoints++

	if s.Phase == model.PhaseLobby && allHumansPlaced(s) {
		s.Phase = model.PhaseRunning
	}
	return model.Accepted()
}

func allHumansPlaced(s *model.Snapshot) bool {
	for i := range s.Players {
		p := &s.Players[i]
		if !p.NPC && !s.OwnsSettlement(p.ID) {
			return false
		}
	}
	return true
}

// handleBuildSettlement founds a smaller settlement on an unclaimed tile
// within reach of one the player already owns.
func handleBuildSettlement(e *Engine, s *model.Snapshot, in model.Intent) model.Outcome {
	if s.Phase != model.PhaseRunning {
		return model.Rejected(model.ErrPhase, "build requires a running match")
	}
	p := s.Player(in.PlayerID)
	if p == nil {
		return model.Rejected(model.ErrBadRequest, "unknown player")
	}
	t := s.Tile(in.TileID)
	if t == nil {
		return model.Rejected(model.ErrInvalidTarget, "no such tile")
	}
	if !t.Terrain.Buildable() {
		return model.Rejected(model.ErrInvalidTarget, "cannot build on water")
	}
	if t.SettlementID != "" {
		return model.Rejected(model.ErrOccupied, "tile already settled")
	}
	if t.ControllerID != "" && t.ControllerID != p.ID {
		return model.Rejected(model.ErrOccupied, "tile is inside enemy territory")
	}
	if !withinBuildRange(s, p.ID, t.Coord, e.tun.Settlement.BuildRange) {
		return model.Rejected(model.ErrOutOfRange, "no owned settlement in range")
	}
	if !p.CanAfford(e.tun.Settlement.BuildCost) {
		return model.Rejected(model.ErrNoResource, "cannot afford a settlement")
	}

	p.Spend(e.tun.Settlement.BuildCost)
	cfg := e.tun.Settlement
	st := model.Settlement{
		ID:            s.Counters.SettlementID(),
		OwnerID:       p.ID,
		TileID:        t.ID,
		Level:         1,
		Population:    cfg.BuildPopulation,
		PopulationCap: cfg.PopulationCap(1),
		Workers:       cfg.BuildWorkers,
		Worshippers:   cfg.BuildWorshippers,
		Defenders:     cfg.BuildDefenders,
	}
	s.Settlements = append(s.Settlements, st)
	t.SettlementID = st.ID
	return model.Accepted()
}

func withinBuildRange(s *model.Snapshot, playerID string, c hexmap.Coord, r int) bool {
	for i := range s.Settlements {
		st := &s.Settlements[i]
		if st.OwnerID != playerID {
			continue
		}
		home := s.Tile(st.TileID)
		if home != nil && hexmap.Distance(home.Coord, c) <= r {
			return true
		}
	}
	return false
}

// handleUpgradeSettlement raises a settlement's level, widening its
// territory radius and population cap.
func handleUpgradeSettlement(e *Engine, s *model.Snapshot, in model.Intent) model.Outcome {
	if s.Phase != model.PhaseRunning {
		return model.Rejected(model.ErrPhase, "upgrade requires a running match")
	}
	p := s.Player(in.PlayerID)
	if p == nil {
		return model.Rejected(model.ErrBadRequest, "unknown player")
	}
	st := s.Settlement(in.SettlementID)
	if st == nil {
		return model.Rejected(model.ErrInvalidTarget, "no such settlement")
	}
	if st.OwnerID != p.ID {
		return model.Rejected(model.ErrNoPermission, "not your settlement")
	}
	if !p.CanAfford(e.tun.Settlement.UpgradeCost) {
		return model.Rejected(model.ErrNoResource, "cannot afford the upgrade")
	}

	p.Spend(e.tun.Settlement.UpgradeCost)
	st.Level++
	st.PopulationCap = e.tun.Settlement.PopulationCap(st.Level)
	return model.Accepted()
}
