package world

import (
	"hexreign.gg/internal/sim/feature/economy"
	"hexreign.gg/internal/sim/feature/power"
	"hexreign.gg/internal/sim/feature/roles"
	"hexreign.gg/internal/sim/feature/territory"
	"hexreign.gg/internal/sim/model"
)

// AdvanceTime moves the clock forward by deltaMs and, while the match is
// RUNNING, runs one full simulation step over the elapsed window: territory
// recomputation, production and demography, buff expiry, policy reallocation,
// and the win check. Outside RUNNING only the clock moves, so a lobby or a
// finished match still tracks wall time.
func (e *Engine) AdvanceTime(s model.Snapshot, deltaMs int64) model.Snapshot {
	next := s.Clone()
	e.advance(&next, deltaMs)
	return next
}

func handleAdvanceTime(e *Engine, s *model.Snapshot, in model.Intent) model.Outcome {
	if in.DeltaMs < 0 {
		return model.Rejected(model.ErrBadRequest, "negative delta_ms")
	}
	e.advance(s, in.DeltaMs)
	return model.Accepted()
}

func (e *Engine) advance(s *model.Snapshot, deltaMs int64) {
	if deltaMs > 0 {
		s.ClockMs += deltaMs
	}
	if s.Phase != model.PhaseRunning {
		return
	}
	territory.Recompute(s)
	economy.Step(s, e.tun, deltaMs)
	power.Prune(s)
	e.reallocAll(s)
	e.EvaluateVictory(s)
}

// reallocAll rewrites every settlement's role split from its owner's policy.
// A manual ALLOCATE_ROLES override therefore lives only until the next
// advance; the policy is the durable source of truth.
func (e *Engine) reallocAll(s *model.Snapshot) {
	for i := range s.Settlements {
		st := &s.Settlements[i]
		p := s.Player(st.OwnerID)
		if p == nil {
			continue
		}
		c := roles.Allocate(st.Population, p.Policy.WorkersPct, p.Policy.WorshippersPct, p.Policy.DefendersPct)
		st.Workers, st.Worshippers, st.Defenders = c.Workers, c.Worshippers, c.Defenders
	}
}

// EvaluateVictory ends the match once a player reaches the victory-point
// goal. A goal of zero or less disables the check. Ties go to seat order.
func (e *Engine) EvaluateVictory(s *model.Snapshot) {
	goal := e.tun.VictoryPoints
	if goal <= 0 {
		return
	}
	for i := range s.Players {
		if s.Players[i].VictoryPoints >= goal {
			s.Phase = model.PhaseGameOver
			s.WinnerID = s.Players[i].ID
			return
		}
	}
}
