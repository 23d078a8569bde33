package world

import (
	"testing"

	"hexreign.gg/internal/sim/model"
)

func TestBothPlacementsStartTheMatch(t *testing.T) {
	eng := testEngine()
	s := twoHumanLobby(t, eng)
	a, b := placementPair(t, &s)

	s = mustApply(t, eng, s, model.Intent{PlayerID: "P1", Kind: model.IntentPlaceStart, TileID: a})
	if s.Phase != model.PhaseLobby {
		t.Fatalf("phase after first placement: got %s want %s", s.Phase, model.PhaseLobby)
	}
	s = mustApply(t, eng, s, model.Intent{PlayerID: "P2", Kind: model.IntentPlaceStart, TileID: b})
	if s.Phase != model.PhaseRunning {
		t.Fatalf("phase after second placement: got %s want %s", s.Phase, model.PhaseRunning)
	}

	for _, id := range []string{"P1", "P2"} {
		p := s.Player(id)
		if p.VictoryPoints != 1 {
			t.Fatalf("%s victory points: got %d want 1", id, p.VictoryPoints)
		}
		st := owned(t, &s, id)
		if st.Population != 10 || st.Workers != 6 || st.Worshippers != 2 || st.Defenders != 2 {
			t.Fatalf("%s start split: got %d=%d/%d/%d want 10=6/2/2",
				id, st.Population, st.Workers, st.Worshippers, st.Defenders)
		}
		if st.Level != 1 || st.PopulationCap != 20 {
			t.Fatalf("%s level/cap: got %d/%d want 1/20", id, st.Level, st.PopulationCap)
		}
	}

	if st := owned(t, &s, "P1"); st.ID != "S001" {
		t.Fatalf("first settlement id: got %s want S001", st.ID)
	}
	if tl := s.Tile(a); tl.SettlementID != "S001" {
		t.Fatalf("tile %s settlement mark: got %q want S001", a, tl.SettlementID)
	}
}

func TestPlacementRejectsWater(t *testing.T) {
	eng := testEngine()
	s := twoHumanLobby(t, eng)
	before := Digest(&s)

	next := mustReject(t, eng, s, model.Intent{
		PlayerID: "P1", Kind: model.IntentPlaceStart, TileID: waterTile(t, &s),
	}, model.ErrInvalidTarget)
	if d := Digest(&next); d != before {
		t.Fatal("snapshot changed on rejected placement")
	}
}

func TestPlacementRejectsSettledTile(t *testing.T) {
	eng := testEngine()
	s := twoHumanLobby(t, eng)
	a, _ := placementPair(t, &s)

	s = mustApply(t, eng, s, model.Intent{PlayerID: "P1", Kind: model.IntentPlaceStart, TileID: a})
	mustReject(t, eng, s, model.Intent{
		PlayerID: "P2", Kind: model.IntentPlaceStart, TileID: a,
	}, model.ErrOccupied)
}

func TestPlacementOncePerPlayer(t *testing.T) {
	eng := testEngine()
	s := twoHumanLobby(t, eng)
	a, b := placementPair(t, &s)

	s = mustApply(t, eng, s, model.Intent{PlayerID: "P1", Kind: model.IntentPlaceStart, TileID: a})
	mustReject(t, eng, s, model.Intent{
		PlayerID: "P1", Kind: model.IntentPlaceStart, TileID: b,
	}, model.ErrBadRequest)
}

func TestPlacementUnknownTileAndPlayer(t *testing.T) {
	eng := testEngine()
	s := twoHumanLobby(t, eng)
	a, _ := placementPair(t, &s)

	mustReject(t, eng, s, model.Intent{
		PlayerID: "P1", Kind: model.IntentPlaceStart, TileID: "H9999",
	}, model.ErrInvalidTarget)
	mustReject(t, eng, s, model.Intent{
		PlayerID: "P7", Kind: model.IntentPlaceStart, TileID: a,
	}, model.ErrBadRequest)
}

func TestNpcSeatDoesNotHoldTheLobby(t *testing.T) {
	eng := testEngine()
	s := eng.NewMatch(7, []PlayerSpec{
		{ID: "P1", Name: "Asha"},
		{ID: "P2", Name: "Torv", NPC: true, Stance: model.StanceAggressive},
	})
	a, _ := placementPair(t, &s)

	s = mustApply(t, eng, s, model.Intent{PlayerID: "P1", Kind: model.IntentPlaceStart, TileID: a})
	if s.Phase != model.PhaseRunning {
		t.Fatalf("phase with unplaced computer seat: got %s want %s", s.Phase, model.PhaseRunning)
	}
}

func TestNpcPlacesWhileRunning(t *testing.T) {
	eng := testEngine()
	s := eng.NewMatch(7, []PlayerSpec{
		{ID: "P1", Name: "Asha"},
		{ID: "P2", Name: "Torv", NPC: true},
	})
	a, b := placementPair(t, &s)

	s = mustApply(t, eng, s, model.Intent{PlayerID: "P1", Kind: model.IntentPlaceStart, TileID: a})
	s = mustApply(t, eng, s, model.Intent{PlayerID: "P2", Kind: model.IntentPlaceStart, TileID: b})
	st := owned(t, &s, "P2")
	if st.Population != 10 {
		t.Fatalf("computer placement population: got %d want 10", st.Population)
	}
}

func TestPlacementRejectedAfterGameOver(t *testing.T) {
	eng := testEngine()
	s := twoHumanLobby(t, eng)
	s.Phase = model.PhaseGameOver
	a, _ := placementPair(t, &s)

	mustReject(t, eng, s, model.Intent{
		PlayerID: "P1", Kind: model.IntentPlaceStart, TileID: a,
	}, model.ErrPhase)
}
