package world

import (
	"encoding/json"
	"testing"

	"hexreign.gg/internal/sim/model"
)

// richMatch plays a short opening so the snapshot exercises every entity
// kind: settlements, buffs, territory, battle damage, and float ledgers.
func richMatch(t *testing.T, eng *Engine) model.Snapshot {
	t.Helper()
	s := runningMatch(t, eng)
	id := owned(t, &s, "P1").ID

	s = eng.AdvanceTime(s, 1000)
	beliefGrant(&s, "P1", 25)
	s = mustApply(t, eng, s, model.Intent{
		PlayerID: "P1", Kind: model.IntentUseDeityPower,
		SettlementID: id, Power: model.PowerInspiredWorship,
	})
	s = eng.AdvanceTime(s, 3000)
	s.Settlement(id).Defenders += 8
	s = mustApply(t, eng, s, model.Intent{
		PlayerID: "P1", Kind: model.IntentRaidSettlement,
		FromID: id, TargetID: owned(t, &s, "P2").ID, CommitPct: 90,
	})
	return eng.AdvanceTime(s, 1000)
}

func TestDigestSurvivesJSONRoundTrip(t *testing.T) {
	eng := testEngine()
	s := richMatch(t, eng)
	want := Digest(&s)

	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back model.Snapshot
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := Digest(&back); got != want {
		t.Fatalf("digest after round trip: got %s want %s", got, want)
	}
}

func TestSameIntentsSameFinalState(t *testing.T) {
	eng := testEngine()
	start := twoHumanLobby(t, eng)
	raw, err := json.Marshal(start)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var restored model.Snapshot
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	a, b := placementPair(t, &start)
	script := []model.Intent{
		{PlayerID: "P1", Kind: model.IntentPlaceStart, TileID: a},
		{PlayerID: "P2", Kind: model.IntentPlaceStart, TileID: b},
		{PlayerID: "P1", Kind: model.IntentAdvanceTime, DeltaMs: 1000},
		{PlayerID: "P1", Kind: model.IntentSetPolicy, WorkersPct: 40, WorshippersPct: 40, DefendersPct: 20},
		{PlayerID: "P1", Kind: model.IntentAdvanceTime, DeltaMs: 2500},
		{PlayerID: "P2", Kind: model.IntentUpgradeSettlement, SettlementID: "S002"},
		{PlayerID: "P1", Kind: model.IntentAdvanceTime, DeltaMs: 10000},
	}

	run := func(s model.Snapshot) string {
		for _, in := range script {
			var out model.Outcome
			s, out = eng.ApplyIntent(s, in)
			if !out.Applied {
				t.Fatalf("script intent %s rejected: %s %s", in.Kind, out.Code, out.Reason)
			}
		}
		return Digest(&s)
	}

	if d1, d2 := run(start), run(restored); d1 != d2 {
		t.Fatalf("replayed digests diverge: %s vs %s", d1, d2)
	}
}

func TestDigestTracksStateChanges(t *testing.T) {
	eng := testEngine()
	s := runningMatch(t, eng)
	d1 := Digest(&s)

	s2 := eng.AdvanceTime(s, 1000)
	if d2 := Digest(&s2); d2 == d1 {
		t.Fatal("digest unchanged across an advance")
	}

	s3 := s.Clone()
	s3.Settlements[0].Workers++
	if d3 := Digest(&s3); d3 == d1 {
		t.Fatal("digest blind to a worker count change")
	}
}
