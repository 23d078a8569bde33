package world

import (
	"testing"

	"hexreign.gg/internal/sim/model"
)

func TestZeroDeltaKeepsLedgersAndPopulation(t *testing.T) {
	eng := testEngine()
	s := runningMatch(t, eng)

	food := s.Player("P1").Resources[model.ResourceFood]
	pop := owned(t, &s, "P1").Population

	s = eng.AdvanceTime(s, 0)
	if got := s.Player("P1").Resources[model.ResourceFood]; got != food {
		t.Fatalf("food after zero advance: got %v want %v", got, food)
	}
	if got := owned(t, &s, "P1").Population; got != pop {
		t.Fatalf("population after zero advance: got %d want %d", got, pop)
	}
	if s.ClockMs != 0 {
		t.Fatalf("clock after zero advance: got %d want 0", s.ClockMs)
	}
}

func TestLobbyAdvanceOnlyMovesClock(t *testing.T) {
	eng := testEngine()
	s := twoHumanLobby(t, eng)

	s = eng.AdvanceTime(s, 5000)
	if s.ClockMs != 5000 {
		t.Fatalf("clock: got %d want 5000", s.ClockMs)
	}
	for i := range s.Tiles {
		if s.Tiles[i].ControllerID != "" {
			t.Fatalf("territory computed in lobby: tile %s controlled by %s",
				s.Tiles[i].ID, s.Tiles[i].ControllerID)
		}
	}
	if got := s.Player("P1").Resources[model.ResourceFood]; !almost(got, 50) {
		t.Fatalf("lobby income: food %v want 50", got)
	}
}

func TestAdvanceIntentMovesClockAndEconomy(t *testing.T) {
	eng := testEngine()
	s := runningMatch(t, eng)

	s = mustApply(t, eng, s, model.Intent{PlayerID: "P1", Kind: model.IntentAdvanceTime, DeltaMs: 1000})
	if s.ClockMs != 1000 {
		t.Fatalf("clock: got %d want 1000", s.ClockMs)
	}
	if got := s.Player("P1").Resources[model.ResourceFood]; got <= 50 {
		t.Fatalf("no production over advance: food %v", got)
	}
}

func TestAdvanceIntentRejectsNegativeDelta(t *testing.T) {
	eng := testEngine()
	s := runningMatch(t, eng)
	before := Digest(&s)

	next := mustReject(t, eng, s, model.Intent{
		PlayerID: "P1", Kind: model.IntentAdvanceTime, DeltaMs: -5,
	}, model.ErrBadRequest)
	if d := Digest(&next); d != before {
		t.Fatal("snapshot changed on rejected advance")
	}
}

func TestTerritoryFillsAfterFirstAdvance(t *testing.T) {
	eng := testEngine()
	s := runningMatch(t, eng)

	s = eng.AdvanceTime(s, 1000)
	if n := s.ControlledTiles("P1"); n == 0 {
		t.Fatal("no territory for P1 after first advance")
	}
	if n := s.ControlledTiles("P2"); n == 0 {
		t.Fatal("no territory for P2 after first advance")
	}
}

func TestGameOverAdvanceIsFrozen(t *testing.T) {
	eng := testEngine()
	s := runningMatch(t, eng)
	s.Phase = model.PhaseGameOver
	food := s.Player("P1").Resources[model.ResourceFood]

	s = eng.AdvanceTime(s, 5000)
	if s.ClockMs != 5000 {
		t.Fatalf("clock: got %d want 5000", s.ClockMs)
	}
	if got := s.Player("P1").Resources[model.ResourceFood]; got != food {
		t.Fatalf("economy ran after game over: food %v want %v", got, food)
	}
}

// Starvation is a per-tick mark: the hungry tick drains the ledger and
// accrues no growth, and a fed tick afterwards resumes it. Workers are
// zeroed first so production cannot cover the upkeep.
func TestStarvingTickBlocksGrowth(t *testing.T) {
	eng := testEngine()
	s := runningMatch(t, eng)
	id := owned(t, &s, "P1").ID
	s = mustApply(t, eng, s, model.Intent{
		PlayerID: "P1", Kind: model.IntentAllocateRoles, SettlementID: id, DefendersPct: 100,
	})
	s.Player("P1").Resources[model.ResourceFood] = 0.01

	s = eng.AdvanceTime(s, 1000)
	if got := s.Settlement(id).GrowthProgress; got != 0 {
		t.Fatalf("growth while starving: got %v want 0", got)
	}
	if got := s.Player("P1").Resources[model.ResourceFood]; got != 0 {
		t.Fatalf("starving tick food: got %v want 0", got)
	}

	// The advance also folded the roles back onto the 60/20/20 policy, so
	// the next window produces food again and growth resumes.
	s = eng.AdvanceTime(s, 1000)
	if got := s.Settlement(id).GrowthProgress; got <= 0 {
		t.Fatalf("growth after recovery: got %v want > 0", got)
	}
}
