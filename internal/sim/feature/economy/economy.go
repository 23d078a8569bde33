// Package economy integrates production, upkeep, and population growth over
// one time slice.
package economy

import (
	"hexreign.gg/internal/sim/feature/power"
	"hexreign.gg/internal/sim/hexmap"
	"hexreign.gg/internal/sim/model"
	"hexreign.gg/internal/sim/tuning"
)

// StepResult carries per-step transients. Starving marks players whose food
// ran out this slice; it is recomputed every step and never serialized.
type StepResult struct {
	Starving map[string]bool
}

// Step advances the economy by deltaMs. It runs only in RUNNING and assumes
// territory control marks are current. Order: production is accumulated per
// owner from every settlement, income is applied in player order, upkeep is
// charged (flagging starvation when food falls short), then non-starving
// settlements below their cap accrue growth. New population joins the worker
// role; the policy reallocator rebalances on the same advance.
func Step(s *model.Snapshot, tun tuning.Tuning, deltaMs int64) StepResult {
	res := StepResult{Starving: map[string]bool{}}
	if s.Phase != model.PhaseRunning || deltaMs <= 0 {
		return res
	}
	dt := float64(deltaMs) / 1000.0

	controlled := map[string]int{}
	for i := range s.Tiles {
		if c := s.Tiles[i].ControllerID; c != "" {
			controlled[c]++
		}
	}

	gains := map[string]map[model.Resource]float64{}
	add := func(owner string, kind model.Resource, v float64) {
		if v == 0 {
			return
		}
		g := gains[owner]
		if g == nil {
			g = map[model.Resource]float64{}
			gains[owner] = g
		}
		g[kind] += v
	}

	for i := range s.Settlements {
		st := &s.Settlements[i]
		tile := s.Tile(st.TileID)
		if tile == nil {
			continue
		}
		wMult, pMult := power.Multipliers(s, st.ID, tun.Powers.Multiplier)
		boost := tun.Territory.Boost(controlled[st.OwnerID])

		workers := float64(st.Workers) * dt * wMult * boost
		if tile.Terrain == hexmap.TerrainWater {
			add(st.OwnerID, model.ResourceGold, workers*tun.Production.WaterGold)
		} else {
			food := tun.Production.WorkerFood
			wood := tun.Production.WorkerWood
			stone := tun.Production.WorkerStone
			switch tile.Terrain {
			case hexmap.TerrainField:
				food += tun.Production.FieldFoodBonus
			case hexmap.TerrainFertileField:
				food += tun.Production.FertileFieldFoodBonus
			case hexmap.TerrainForest:
				wood += tun.Production.ForestWoodBonus
			case hexmap.TerrainMountain:
				stone += tun.Production.MountainStoneBonus
			}
			add(st.OwnerID, model.ResourceFood, workers*food)
			add(st.OwnerID, model.ResourceWood, workers*wood)
			add(st.OwnerID, model.ResourceStone, workers*stone)
		}
		add(st.OwnerID, model.ResourceBelief,
			float64(st.Worshippers)*tun.Production.BeliefPerWorshipper*dt*pMult*boost)
	}

	// Income lands in player order, resources in canonical order, so identical
	// inputs always produce bit-identical ledgers.
	for i := range s.Players {
		p := &s.Players[i]
		g := gains[p.ID]
		if g == nil {
			continue
		}
		for _, kind := range model.ResourceKinds {
			if v := g[kind]; v != 0 {
				p.AddResource(kind, v)
			}
		}
	}

	popByOwner := map[string]int{}
	for i := range s.Settlements {
		popByOwner[s.Settlements[i].OwnerID] += s.Settlements[i].Population
	}
	for i := range s.Players {
		p := &s.Players[i]
		need := float64(popByOwner[p.ID]) * tun.Upkeep.FoodPerPop * dt
		if need <= 0 {
			continue
		}
		have := p.Resources[model.ResourceFood]
		if have >= need {
			p.AddResource(model.ResourceFood, -need)
		} else {
			p.AddResource(model.ResourceFood, -have)
			res.Starving[p.ID] = true
		}
	}

	for i := range s.Settlements {
		st := &s.Settlements[i]
		if st.Population >= st.PopulationCap || res.Starving[st.OwnerID] {
			continue
		}
		st.GrowthProgress += float64(st.Population) * tun.Growth.Rate * dt
		for st.GrowthProgress >= tun.Growth.Threshold && st.Population < st.PopulationCap {
			st.GrowthProgress -= tun.Growth.Threshold
			st.Population++
			st.Workers++
		}
	}

	return res
}
