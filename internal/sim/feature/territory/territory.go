// Package territory recomputes tile control from settlement influence.
package territory

import (
	"hexreign.gg/internal/sim/hexmap"
	"hexreign.gg/internal/sim/model"
)

type site struct {
	owner  string
	coord  hexmap.Coord
	radius int
}

// Recompute replaces every tile's controller from scratch. A settlement
// projects influence out to hex distance 1+level; the nearest in-range
// settlement's owner takes the tile. A minimal-distance tie between
// settlements of different owners leaves the tile contested (no controller);
// same-owner ties are not contests. No state is carried between calls.
func Recompute(s *model.Snapshot) {
	sites := make([]site, 0, len(s.Settlements))
	for i := range s.Settlements {
		st := &s.Settlements[i]
		home := s.Tile(st.TileID)
		if home == nil {
			continue
		}
		sites = append(sites, site{owner: st.OwnerID, coord: home.Coord, radius: 1 + st.Level})
	}

	for i := range s.Tiles {
		t := &s.Tiles[i]
		best := -1
		owner := ""
		contested := false
		for _, st := range sites {
			d := hexmap.Distance(t.Coord, st.coord)
			if d > st.radius {
				continue
			}
			switch {
			case best < 0 || d < best:
				best, owner, contested = d, st.owner, false
			case d == best && st.owner != owner:
				contested = true
			}
		}
		if best < 0 || contested {
			t.ControllerID = ""
		} else {
			t.ControllerID = owner
		}
	}
}
