package world

import (
	"hexreign.gg/internal/sim/feature/roles"
	"hexreign.gg/internal/sim/model"
)

// handleAllocateRoles applies an explicit split to one settlement. The next
// time advance folds every settlement back onto its owner's policy, so this
// is a transient override, not a durable setting.
func handleAllocateRoles(e *Engine, s *model.Snapshot, in model.Intent) model.Outcome {
	if s.Phase != model.PhaseRunning {
		return model.Rejected(model.ErrPhase, "allocation requires a running match")
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

	c := roles.Allocate(st.Population, in.WorkersPct, in.WorshippersPct, in.DefendersPct)
	st.Workers, st.Worshippers, st.Defenders = c.Workers, c.Worshippers, c.Defenders
	return model.Accepted()
}

// handleSetPolicy updates the caller's standing role split and raid stance.
// An empty stance keeps the current one.
func handleSetPolicy(e *Engine, s *model.Snapshot, in model.Intent) model.Outcome {
	if s.Phase == model.PhaseGameOver {
		return model.Rejected(model.ErrPhase, "match is over")
	}
	p := s.Player(in.PlayerID)
	if p == nil {
		return model.Rejected(model.ErrBadRequest, "unknown player")
	}
	switch in.Stance {
	case "", model.StanceAggressive, model.StanceDefensive, model.StancePassive:
	default:
		return model.Rejected(model.ErrBadRequest, "unknown stance")
	}

	p.Policy.WorkersPct = clampPct(in.WorkersPct)
	p.Policy.WorshippersPct = clampPct(in.WorshippersPct)
	p.Policy.DefendersPct = clampPct(in.DefendersPct)
	if in.Stance != "" {
		p.Policy.Stance = in.Stance
	}
	return model.Accepted()
}

func clampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// handleUseDeityPower casts a timed buff on an owned settlement, spending
// Belief up front. Expiry is fixed at cast time from the current clock and
// never re-evaluated.
func handleUseDeityPower(e *Engine, s *model.Snapshot, in model.Intent) model.Outcome {
	if s.Phase != model.PhaseRunning {
		return model.Rejected(model.ErrPhase, "powers require a running match")
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
	cost, ok := e.tun.Powers.Cost(in.Power)
	if !ok {
		return model.Rejected(model.ErrBadRequest, "unknown power")
	}
	if p.Resources[model.ResourceBelief] < cost {
		return model.Rejected(model.ErrNoResource, "not enough belief")
	}

	p.AddResource(model.ResourceBelief, -cost)
	s.Buffs = append(s.Buffs, model.Buff{
		ID:           s.Counters.BuffID(),
		SettlementID: st.ID,
		OwnerID:      p.ID,
		Power:        in.Power,
		ExpiresAtMs:  s.ClockMs + e.tun.Powers.DurationMs,
	})
	return model.Accepted()
}
