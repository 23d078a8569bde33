package hexmap

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds map generation parameters.
type GenConfig struct {
	Radius        int     // hex grid radius in tiles
	Seed          int64   // noise seed; identical seeds produce identical maps
	SeaLevel      float64 // elevation below this is water
	MountainLevel float64 // elevation above this is mountain
	FertileLevel  float64 // moisture above this on lowland is fertile field
	ForestLevel   float64 // moisture above this on lowland is forest
}

// DefaultGenConfig returns the generation parameters used for standard matches.
func DefaultGenConfig(seed int64) GenConfig {
	return GenConfig{
		Radius:        12,
		Seed:          seed,
		SeaLevel:      0.30,
		MountainLevel: 0.72,
		FertileLevel:  0.62,
		ForestLevel:   0.45,
	}
}

// Cell is one generated tile before entity IDs are assigned.
type Cell struct {
	Coord   Coord
	Terrain Terrain
}

// Generate builds the round match map. Cells are ordered by q then r, so the
// output is fully determined by cfg. The map is bounded by the cube radius
// (max(|q|,|r|,|s|) <= Radius) and elevation falls off toward the rim, giving
// every map a water border.
func Generate(cfg GenConfig) []Cell {
	elevNoise := opensimplex.NewNormalized(cfg.Seed)
	moistNoise := opensimplex.NewNormalized(cfg.Seed + 1)

	var cells []Cell
	for q := -cfg.Radius; q <= cfg.Radius; q++ {
		for r := -cfg.Radius; r <= cfg.Radius; r++ {
			c := Coord{Q: q, R: r}
			if Distance(c, Coord{}) > cfg.Radius {
				continue
			}

			// Axial to cartesian for noise sampling: x = q + r/2, y = r*sqrt(3)/2.
			x := float64(q) + float64(r)*0.5
			y := float64(r) * math.Sqrt(3.0) / 2.0

			elev := octaveNoise(elevNoise, x, y, 4, 0.08, 0.5)
			moist := octaveNoise(moistNoise, x, y, 3, 0.06, 0.5)

			// Rim falloff pushes the border below sea level.
			dist := math.Sqrt(x*x+y*y) / float64(cfg.Radius)
			falloff := 1.0 - math.Pow(dist, 3.5)
			if falloff < 0 {
				falloff = 0
			}
			elev *= falloff

			cells = append(cells, Cell{Coord: c, Terrain: classify(cfg, elev, moist)})
		}
	}
	return cells
}

func classify(cfg GenConfig, elev, moist float64) Terrain {
	switch {
	case elev < cfg.SeaLevel:
		return TerrainWater
	case elev > cfg.MountainLevel:
		return TerrainMountain
	case moist > cfg.FertileLevel:
		return TerrainFertileField
	case moist > cfg.ForestLevel:
		return TerrainForest
	default:
		return TerrainField
	}
}

// octaveNoise layers multiple noise frequencies for natural-looking terrain.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}
