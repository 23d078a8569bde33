// Package npc proposes intents for computer-controlled players. Proposals go
// through the same reducer as human intents, so nothing here can bypass
// validation; the advisor only has to be plausible, not correct.
package npc

import (
	"math/rand"

	"hexreign.gg/internal/sim/hexmap"
	"hexreign.gg/internal/sim/model"
	"hexreign.gg/internal/sim/tuning"
)

// RaidPolicy decides whether and how hard a player raids this step. It must
// not mutate the snapshot. The stance table below is the standard
// implementation; alternate strategies plug in through Advisor.WithRaidPolicy.
type RaidPolicy interface {
	Raid(rng *rand.Rand, s *model.Snapshot, playerID string) (sourceID, targetID string, commitPct int, ok bool)
}

// Advisor turns a snapshot into intent proposals for every NPC player. All
// randomness flows from the seeded rng, so a fixed seed replays the same
// decisions against the same snapshots.
type Advisor struct {
	rng  *rand.Rand
	tun  tuning.Tuning
	raid RaidPolicy
}

func New(tun tuning.Tuning, seed int64) *Advisor {
	return &Advisor{
		rng:  rand.New(rand.NewSource(seed)),
		tun:  tun,
		raid: StanceTable{Stances: tun.NPC.Stances},
	}
}

// WithRaidPolicy swaps the raid strategy and returns the advisor.
func (a *Advisor) WithRaidPolicy(p RaidPolicy) *Advisor {
	a.raid = p
	return a
}

// Decide proposes intents for every NPC player, in player order.
func (a *Advisor) Decide(s *model.Snapshot) []model.Intent {
	if s.Phase == model.PhaseGameOver {
		return nil
	}
	var out []model.Intent
	for i := range s.Players {
		if !s.Players[i].NPC {
			continue
		}
		out = append(out, a.DecideFor(s, s.Players[i].ID)...)
	}
	return out
}

// DecideFor proposes intents for one player. Also used by headless clients to
// drive a remote player with the same policies.
func (a *Advisor) DecideFor(s *model.Snapshot, playerID string) []model.Intent {
	p := s.Player(playerID)
	if p == nil || s.Phase == model.PhaseGameOver {
		return nil
	}

	// Without a settlement the only move is placing one.
	if !s.OwnsSettlement(p.ID) {
		if tile := a.pick(eligiblePlacement(s)); tile != "" {
			return []model.Intent{{PlayerID: p.ID, Kind: model.IntentPlaceStart, TileID: tile}}
		}
		return nil
	}
	if s.Phase != model.PhaseRunning {
		return nil
	}

	var out []model.Intent

	if a.rng.Float64() < a.tun.NPC.UpgradeChance && p.CanAfford(a.tun.Settlement.UpgradeCost) {
		if st := lowestLevel(s, p.ID); st != nil {
			out = append(out, model.Intent{PlayerID: p.ID, Kind: model.IntentUpgradeSettlement, SettlementID: st.ID})
		}
	}

	if a.rng.Float64() < a.tun.NPC.PowerChance {
		kind := model.PowerBlessedHarvest
		if a.rng.Intn(2) == 1 {
			kind = model.PowerInspiredWorship
		}
		if cost, ok := a.tun.Powers.Cost(kind); ok && p.Resources[model.ResourceBelief] >= cost {
			if st := highestPopulation(s, p.ID); st != nil {
				out = append(out, model.Intent{PlayerID: p.ID, Kind: model.IntentUseDeityPower, SettlementID: st.ID, Power: kind})
			}
		}
	}

	if a.rng.Float64() < a.tun.NPC.ExpandChance &&
		p.CanAfford(a.tun.Settlement.BuildCost) &&
		ownedCount(s, p.ID) < a.tun.NPC.MaxSettlements {
		if tile := a.pick(eligibleBuild(s, p.ID, a.tun.Settlement.BuildRange)); tile != "" {
			out = append(out, model.Intent{PlayerID: p.ID, Kind: model.IntentBuildSettlement, TileID: tile})
		}
	}

	if src, dst, pct, ok := a.raid.Raid(a.rng, s, p.ID); ok {
		out = append(out, model.Intent{PlayerID: p.ID, Kind: model.IntentRaidSettlement, FromID: src, TargetID: dst, CommitPct: pct})
	}

	return out
}

func (a *Advisor) pick(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[a.rng.Intn(len(ids))]
}

// StanceTable raids per the player's stance tuning: roll the stance's raid
// chance, require the strongest garrison to meet the stance's defender
// threshold, then pick a random enemy settlement.
type StanceTable struct {
	Stances map[model.Stance]tuning.StanceTuning
}

func (t StanceTable) Raid(rng *rand.Rand, s *model.Snapshot, playerID string) (string, string, int, bool) {
	p := s.Player(playerID)
	if p == nil {
		return "", "", 0, false
	}
	st, ok := t.Stances[p.Policy.Stance]
	if !ok || st.RaidChance <= 0 || rng.Float64() >= st.RaidChance {
		return "", "", 0, false
	}
	src := strongestGarrison(s, playerID)
	if src == nil || src.Defenders <= 0 || src.Defenders < st.MinDefenders {
		return "", "", 0, false
	}
	targets := enemySettlements(s, playerID)
	if len(targets) == 0 {
		return "", "", 0, false
	}
	dst := targets[rng.Intn(len(targets))]
	return src.ID, dst, st.CommitPercent, true
}

func eligiblePlacement(s *model.Snapshot) []string {
	var out []string
	for i := range s.Tiles {
		t := &s.Tiles[i]
		if t.Terrain.Buildable() && t.SettlementID == "" {
			out = append(out, t.ID)
		}
	}
	return out
}

func eligibleBuild(s *model.Snapshot, playerID string, buildRange int) []string {
	var homes []hexmap.Coord
	for i := range s.Settlements {
		if s.Settlements[i].OwnerID != playerID {
			continue
		}
		if home := s.Tile(s.Settlements[i].TileID); home != nil {
			homes = append(homes, home.Coord)
		}
	}
	var out []string
	for i := range s.Tiles {
		t := &s.Tiles[i]
		if !t.Terrain.Buildable() || t.SettlementID != "" {
			continue
		}
		if t.ControllerID != "" && t.ControllerID != playerID {
			continue
		}
		for _, h := range homes {
			if hexmap.Distance(t.Coord, h) <= buildRange {
				out = append(out, t.ID)
				break
			}
		}
	}
	return out
}

func ownedCount(s *model.Snapshot, playerID string) int {
	n := 0
	for i := range s.Settlements {
		if s.Settlements[i].OwnerID == playerID {
			n++
		}
	}
	return n
}

func lowestLevel(s *model.Snapshot, playerID string) *model.Settlement {
	var best *model.Settlement
	for i := range s.Settlements {
		st := &s.Settlements[i]
		if st.OwnerID != playerID {
			continue
		}
		if best == nil || st.Level < best.Level {
			best = st
		}
	}
	return best
}

func highestPopulation(s *model.Snapshot, playerID string) *model.Settlement {
	var best *model.Settlement
	for i := range s.Settlements {
		st := &s.Settlements[i]
		if st.OwnerID != playerID {
			continue
		}
		if best == nil || st.Population > best.Population {
			best = st
		}
	}
	return best
}

func strongestGarrison(s *model.Snapshot, playerID string) *model.Settlement {
	var best *model.Settlement
	for i := range s.Settlements {
		st := &s.Settlements[i]
		if st.OwnerID != playerID {
			continue
		}
		if best == nil || st.Defenders > best.Defenders {
			best = st
		}
	}
	return best
}

func enemySettlements(s *model.Snapshot, playerID string) []string {
	var out []string
	for i := range s.Settlements {
		if s.Settlements[i].OwnerID != playerID {
			out = append(out, s.Settlements[i].ID)
		}
	}
	return out
}
