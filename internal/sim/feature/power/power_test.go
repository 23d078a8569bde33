package power

import (
	"testing"

	"hexreign.gg/internal/sim/model"
)

func TestMultipliersStackPerKind(t *testing.T) {
	s := model.Snapshot{Buffs: []model.Buff{
		{ID: "B0001", SettlementID: "S001", Power: model.PowerBlessedHarvest, ExpiresAtMs: 9000},
		{ID: "B0002", SettlementID: "S001", Power: model.PowerBlessedHarvest, ExpiresAtMs: 9000},
		{ID: "B0003", SettlementID: "S001", Power: model.PowerInspiredWorship, ExpiresAtMs: 9000},
		{ID: "B0004", SettlementID: "S002", Power: model.PowerInspiredWorship, ExpiresAtMs: 9000},
	}}

	w, p := Multipliers(&s, "S001", 2.0)
	if w != 4.0 {
		t.Fatalf("worker multiplier: got %v want 4", w)
	}
	if p != 2.0 {
		t.Fatalf("worshipper multiplier: got %v want 2", p)
	}

	w, p = Multipliers(&s, "S003", 2.0)
	if w != 1.0 || p != 1.0 {
		t.Fatalf("unbuffed settlement: got %v/%v want 1/1", w, p)
	}
}

func TestPruneDropsAtOrBeforeClock(t *testing.T) {
	s := model.Snapshot{
		ClockMs: 5000,
		Buffs: []model.Buff{
			{ID: "B0001", ExpiresAtMs: 4000},
			{ID: "B0002", ExpiresAtMs: 5000}, // boundary: expiry == clock is expired
			{ID: "B0003", ExpiresAtMs: 5001},
		},
	}

	Prune(&s)

	if len(s.Buffs) != 1 {
		t.Fatalf("surviving buffs: got %d want 1", len(s.Buffs))
	}
	if s.Buffs[0].ID != "B0003" {
		t.Fatalf("survivor: got %s want B0003", s.Buffs[0].ID)
	}
}
