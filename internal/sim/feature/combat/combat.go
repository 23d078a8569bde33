// Package combat resolves settlement raids.
package combat

import (
	"math"

	"hexreign.gg/internal/sim/model"
)

// Report is the arithmetic of one resolved raid, for journaling and tests.
// Conservation holds on both sides: Survivors+AttackerLosses == Raiders and
// the target's defender count drops by exactly DefenderLosses.
type Report struct {
	Raiders        int
	Survivors      int
	AttackerLosses int
	DefenderLosses int
	PopulationLoss int
	Loot           map[model.Resource]float64
	Victory        bool
}

// Raiders converts a commitment percentage of the source's defenders into a
// raider count: floor(defenders*pct/100), at least 1 while any defender
// exists, never more than the defender count. The percentage is clamped to
// [0,100] first.
func Raiders(defenders, commitPct int) int {
	if defenders <= 0 {
		return 0
	}
	if commitPct < 0 {
		commitPct = 0
	}
	if commitPct > 100 {
		commitPct = 100
	}
	n := defenders * commitPct / 100
	if n < 1 {
		n = 1
	}
	if n > defenders {
		n = defenders
	}
	return n
}

// Resolve fights a validated raid to completion, mutating both settlements
// and both ledgers. Attack power is the raider count, defense power the
// target's defenders. A repelled raid (attack <= defense) costs both sides
// the attack power and nothing else. A breakthrough destroys the whole
// defense, costs the attacker that many raiders, applies the overkill as
// population loss (capped), and transfers floor(lootRate * holding) of every
// target resource to the attacker.
func Resolve(src, dst *model.Settlement, attacker, defender *model.Player, commitPct int, lootRate float64) Report {
	rep := Report{Raiders: Raiders(src.Defenders, commitPct)}
	attack := rep.Raiders
	defense := dst.Defenders

	if attack <= defense {
		rep.AttackerLosses = attack
		rep.DefenderLosses = attack
	} else {
		rep.Victory = true
		rep.AttackerLosses = defense
		rep.DefenderLosses = defense
		rep.PopulationLoss = attack - defense
		if rep.PopulationLoss > dst.Population {
			rep.PopulationLoss = dst.Population
		}
		rep.Loot = map[model.Resource]float64{}
		for _, kind := range model.ResourceKinds {
			take := math.Floor(lootRate * defender.Resources[kind])
			if take <= 0 {
				continue
			}
			defender.AddResource(kind, -take)
			attacker.AddResource(kind, take)
			rep.Loot[kind] = take
		}
	}

	rep.Survivors = rep.Raiders - rep.AttackerLosses
	src.Defenders -= rep.AttackerLosses
	dst.Defenders -= rep.DefenderLosses
	dst.Population -= rep.PopulationLoss
	if src.Defenders < 0 {
		src.Defenders = 0
	}
	if dst.Defenders < 0 {
		dst.Defenders = 0
	}
	if dst.Population < 0 {
		dst.Population = 0
	}
	return rep
}
