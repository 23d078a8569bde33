// Package tuning carries every gameplay constant. Defaults are compiled in;
// configs/tuning.yaml overrides whichever fields it names.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hexreign.gg/internal/sim/model"
)

type Tuning struct {
	TickMs int64 `yaml:"tick_ms"`

	Map            Map                        `yaml:"map"`
	Production     Production                 `yaml:"production"`
	Territory      Territory                  `yaml:"territory"`
	Upkeep         Upkeep                     `yaml:"upkeep"`
	Growth         Growth                     `yaml:"growth"`
	Settlement     Settlement                 `yaml:"settlement"`
	Powers         Powers                     `yaml:"powers"`
	Combat         Combat                     `yaml:"combat"`
	DefaultPolicy  PolicyDefaults             `yaml:"default_policy"`
	StartResources map[model.Resource]float64 `yaml:"start_resources"`
	VictoryPoints  int                        `yaml:"victory_points"`
	NPC            NPC                        `yaml:"npc"`
}

type Map struct {
	Radius int `yaml:"radius"`
}

// Production rates are per worker (or worshipper) per second.
type Production struct {
	WorkerFood            float64 `yaml:"worker_food"`
	WorkerWood            float64 `yaml:"worker_wood"`
	WorkerStone           float64 `yaml:"worker_stone"`
	FieldFoodBonus        float64 `yaml:"field_food_bonus"`
	FertileFieldFoodBonus float64 `yaml:"fertile_field_food_bonus"`
	ForestWoodBonus       float64 `yaml:"forest_wood_bonus"`
	MountainStoneBonus    float64 `yaml:"mountain_stone_bonus"`
	WaterGold             float64 `yaml:"water_gold"`
	BeliefPerWorshipper   float64 `yaml:"belief_per_worshipper"`
}

type Territory struct {
	BoostPerTile float64 `yaml:"boost_per_tile"`
	BoostMax     float64 `yaml:"boost_max"`
}

// Boost returns the owner-wide production factor for a controlled-tile count:
// 1 + min(tiles*BoostPerTile, BoostMax).
func (t Territory) Boost(tiles int) float64 {
	b := float64(tiles) * t.BoostPerTile
	if b > t.BoostMax {
		b = t.BoostMax
	}
	return 1 + b
}

type Upkeep struct {
	FoodPerPop float64 `yaml:"food_per_pop"` // per person per second
}

type Growth struct {
	Rate      float64 `yaml:"rate"` // progress per person per second
	Threshold float64 `yaml:"threshold"`
}

type Settlement struct {
	StartPopulation  int `yaml:"start_population"`
	StartWorkers     int `yaml:"start_workers"`
	StartWorshippers int `yaml:"start_worshippers"`
	StartDefenders   int `yaml:"start_defenders"`

	BuildPopulation  int `yaml:"build_population"`
	BuildWorkers     int `yaml:"build_workers"`
	BuildWorshippers int `yaml:"build_worshippers"`
	BuildDefenders   int `yaml:"build_defenders"`

	PopulationCapBase     int `yaml:"population_cap_base"`
	PopulationCapPerLevel int `yaml:"population_cap_per_level"`

	BuildRange  int                        `yaml:"build_range"`
	BuildCost   map[model.Resource]float64 `yaml:"build_cost"`
	UpgradeCost map[model.Resource]float64 `yaml:"upgrade_cost"`
}

// PopulationCap returns the cap for a settlement level.
func (s Settlement) PopulationCap(level int) int {
	return s.PopulationCapBase + level*s.PopulationCapPerLevel
}

type Powers struct {
	BlessedHarvestCost  float64 `yaml:"blessed_harvest_cost"`
	InspiredWorshipCost float64 `yaml:"inspired_worship_cost"`
	DurationMs          int64   `yaml:"duration_ms"`
	Multiplier          float64 `yaml:"multiplier"`
}

// Cost returns the Belief price of a power, or false for unknown kinds.
func (p Powers) Cost(power model.Power) (float64, bool) {
	switch power {
	case model.PowerBlessedHarvest:
		return p.BlessedHarvestCost, true
	case model.PowerInspiredWorship:
		return p.InspiredWorshipCost, true
	default:
		return 0, false
	}
}

type Combat struct {
	LootRate float64 `yaml:"loot_rate"`
}

type PolicyDefaults struct {
	WorkersPct     int `yaml:"workers_pct"`
	WorshippersPct int `yaml:"worshippers_pct"`
	DefendersPct   int `yaml:"defenders_pct"`
}

type NPC struct {
	UpgradeChance  float64                       `yaml:"upgrade_chance"`
	PowerChance    float64                       `yaml:"power_chance"`
	ExpandChance   float64                       `yaml:"expand_chance"`
	MaxSettlements int                           `yaml:"max_settlements"`
	Stances        map[model.Stance]StanceTuning `yaml:"stances"`
}

// StanceTuning governs autonomous raiding per stance.
type StanceTuning struct {
	RaidChance    float64 `yaml:"raid_chance"`
	MinDefenders  int     `yaml:"min_defenders"`
	CommitPercent int     `yaml:"commit_percent"`
}

// Default returns the standard-match constants.
func Default() Tuning {
	return Tuning{
		TickMs: 1000,
		Map:    Map{Radius: 12},
		Production: Production{
			WorkerFood:            0.05,
			WorkerWood:            0.03,
			WorkerStone:           0.02,
			FieldFoodBonus:        0.05,
			FertileFieldFoodBonus: 0.10,
			ForestWoodBonus:       0.08,
			MountainStoneBonus:    0.08,
			WaterGold:             0.05,
			BeliefPerWorshipper:   0.10,
		},
		Territory: Territory{BoostPerTile: 0.02, BoostMax: 2.0},
		Upkeep:    Upkeep{FoodPerPop: 0.02},
		Growth:    Growth{Rate: 0.01, Threshold: 10.0},
		Settlement: Settlement{
			StartPopulation:  10,
			StartWorkers:     6,
			StartWorshippers: 2,
			StartDefenders:   2,

			BuildPopulation:  5,
			BuildWorkers:     3,
			BuildWorshippers: 1,
			BuildDefenders:   1,

			PopulationCapBase:     10,
			PopulationCapPerLevel: 10,

			BuildRange: 3,
			BuildCost: map[model.Resource]float64{
				model.ResourceWood:  25,
				model.ResourceStone: 15,
			},
			UpgradeCost: map[model.Resource]float64{
				model.ResourceWood:  30,
				model.ResourceStone: 30,
			},
		},
		Powers: Powers{
			BlessedHarvestCost:  10,
			InspiredWorshipCost: 15,
			DurationMs:          15000,
			Multiplier:          2.0,
		},
		Combat:        Combat{LootRate: 0.20},
		DefaultPolicy: PolicyDefaults{WorkersPct: 60, WorshippersPct: 20, DefendersPct: 20},
		StartResources: map[model.Resource]float64{
			model.ResourceFood:  50,
			model.ResourceWood:  50,
			model.ResourceStone: 30,
		},
		VictoryPoints: 0,
		NPC: NPC{
			UpgradeChance:  0.10,
			PowerChance:    0.20,
			ExpandChance:   0.08,
			MaxSettlements: 4,
			Stances: map[model.Stance]StanceTuning{
				model.StanceAggressive: {RaidChance: 0.15, MinDefenders: 4, CommitPercent: 80},
				model.StanceDefensive:  {RaidChance: 0.05, MinDefenders: 8, CommitPercent: 50},
				model.StancePassive:    {},
			},
		},
	}
}

// Load reads a YAML override file on top of the compiled defaults. Fields the
// file does not mention keep their default values.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}
