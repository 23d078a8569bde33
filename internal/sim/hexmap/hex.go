// Package hexmap provides the axial hex grid and deterministic terrain
// generation for match maps.
package hexmap

// Coord is a position on the hex grid in axial coordinates. The third cube
// coordinate s is derived: s = -q - r.
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (c Coord) S() int { return -c.Q - c.R }

// NeighborDirections are the six axial offsets to adjacent hexes,
// counter-clockwise from east.
var NeighborDirections = [6]Coord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent coordinates.
func (c Coord) Neighbors() [6]Coord {
	var out [6]Coord
	for i, d := range NeighborDirections {
		out[i] = Coord{Q: c.Q + d.Q, R: c.R + d.R}
	}
	return out
}

// Distance returns the hex distance between two coordinates: the maximum
// absolute difference of the cube coordinates.
func Distance(a, b Coord) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	ds := a.S() - b.S()
	if dq < 0 {
		dq = -dq
	}
	if dr < 0 {
		dr = -dr
	}
	if ds < 0 {
		ds = -ds
	}
	max := dq
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}

// Terrain classifies a tile. Production bonuses per terrain live in tuning.
type Terrain string

const (
	TerrainField        Terrain = "FIELD"
	TerrainFertileField Terrain = "FERTILE_FIELD"
	TerrainForest       Terrain = "FOREST"
	TerrainMountain     Terrain = "MOUNTAIN"
	TerrainWater        Terrain = "WATER"
)

// Buildable reports whether a settlement may occupy this terrain.
func (t Terrain) Buildable() bool { return t != TerrainWater }
