package tuning

import (
	"os"
	"path/filepath"
	"testing"

	"hexreign.gg/internal/sim/model"
)

func TestLoadOverridesOnTopOfDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	raw := []byte("tick_ms: 250\nvictory_points: 30\ncombat:\n  loot_rate: 0.5\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	tun, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tun.TickMs != 250 {
		t.Fatalf("tick_ms: got %d want 250", tun.TickMs)
	}
	if tun.VictoryPoints != 30 {
		t.Fatalf("victory_points: got %d want 30", tun.VictoryPoints)
	}
	if tun.Combat.LootRate != 0.5 {
		t.Fatalf("loot_rate: got %v want 0.5", tun.Combat.LootRate)
	}
	// Untouched fields keep their defaults.
	if tun.Growth.Threshold != Default().Growth.Threshold {
		t.Fatalf("growth threshold lost default: got %v", tun.Growth.Threshold)
	}
	if tun.Settlement.BuildCost[model.ResourceWood] != 25 {
		t.Fatalf("build cost lost default: got %v", tun.Settlement.BuildCost[model.ResourceWood])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestTerritoryBoostCap(t *testing.T) {
	tr := Default().Territory
	if got := tr.Boost(0); got != 1.0 {
		t.Fatalf("boost(0): got %v want 1", got)
	}
	if got := tr.Boost(10); got != 1.2 {
		t.Fatalf("boost(10): got %v want 1.2", got)
	}
	if got := tr.Boost(500); got != 3.0 {
		t.Fatalf("boost(500): got %v want 3 (capped)", got)
	}
}

func TestPopulationCapByLevel(t *testing.T) {
	s := Default().Settlement
	if got := s.PopulationCap(1); got != 20 {
		t.Fatalf("cap level 1: got %d want 20", got)
	}
	if got := s.PopulationCap(3); got != 40 {
		t.Fatalf("cap level 3: got %d want 40", got)
	}
}

func TestPowerCost(t *testing.T) {
	p := Default().Powers
	if c, ok := p.Cost(model.PowerBlessedHarvest); !ok || c != 10 {
		t.Fatalf("blessed harvest: got %v,%v want 10,true", c, ok)
	}
	if c, ok := p.Cost(model.PowerInspiredWorship); !ok || c != 15 {
		t.Fatalf("inspired worship: got %v,%v want 15,true", c, ok)
	}
	if _, ok := p.Cost(model.Power("SMITE")); ok {
		t.Fatal("unknown power should not price")
	}
}
