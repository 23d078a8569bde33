package world

import (
	"hexreign.gg/internal/sim/feature/combat"
	"hexreign.gg/internal/sim/model"
)

// handleRaidSettlement sends part of a settlement's garrison against an
// enemy settlement and resolves the battle immediately; there is no travel
// time. Outcome bookkeeping (losses, loot, surviving raiders) is the combat
// resolver's job.
func handleRaidSettlement(e *Engine, s *model.Snapshot, in model.Intent) model.Outcome {
	if s.Phase != model.PhaseRunning {
		return model.Rejected(model.ErrPhase, "raids require a running match")
	}
	p := s.Player(in.PlayerID)
	if p == nil {
		return model.Rejected(model.ErrBadRequest, "unknown player")
	}
	src := s.Settlement(in.FromID)
	if src == nil {
		return model.Rejected(model.ErrInvalidTarget, "no such source settlement")
	}
	if src.OwnerID != p.ID {
		return model.Rejected(model.ErrNoPermission, "not your settlement")
	}
	dst := s.Settlement(in.TargetID)
	if dst == nil {
		return model.Rejected(model.ErrInvalidTarget, "no such target settlement")
	}
	if dst.OwnerID == p.ID {
		return model.Rejected(model.ErrInvalidTarget, "cannot raid your own settlement")
	}
	if src.Defenders <= 0 {
		return model.Rejected(model.ErrNoResource, "no defenders to send")
	}
	def := s.Player(dst.OwnerID)
	if def == nil {
		return model.Rejected(model.ErrInvalidTarget, "target settlement has no owner")
	}

	combat.Resolve(src, dst, p, def, in.CommitPct, e.tun.Combat.LootRate)
	return model.Accepted()
}
