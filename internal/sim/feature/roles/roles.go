// Package roles converts policy percentages into integer role counts.
package roles

import "math"

// Counts is an integer role split. Workers+Worshippers+Defenders always
// equals the population Allocate was given.
type Counts struct {
	Workers     int
	Worshippers int
	Defenders   int
}

// Allocate splits a population across the three roles proportionally to the
// given percentages. Percentages are clamped to [0,100] and normalized by
// their sum; a zero sum routes everyone to workers. Raw shares are floored
// and the flooring remainder is handed out one unit at a time in the fixed
// order workers, worshippers, defenders, each capped at the ceiling of its
// raw share, so the result is deterministic on ties and sums exactly.
func Allocate(population, workersPct, worshippersPct, defendersPct int) Counts {
	if population <= 0 {
		return Counts{}
	}
	w := clampPct(workersPct)
	p := clampPct(worshippersPct)
	d := clampPct(defendersPct)
	total := w + p + d
	if total == 0 {
		return Counts{Workers: population}
	}

	raw := [3]float64{
		float64(population) * float64(w) / float64(total),
		float64(population) * float64(p) / float64(total),
		float64(population) * float64(d) / float64(total),
	}
	var counts [3]int
	assigned := 0
	for i, r := range raw {
		counts[i] = int(math.Floor(r))
		assigned += counts[i]
	}

	for assigned < population {
		gave := false
		for i, r := range raw {
			if assigned >= population {
				break
			}
			if counts[i] < int(math.Ceil(r)) {
				counts[i]++
				assigned++
				gave = true
			}
		}
		if !gave {
			// Float dust left everyone at ceiling; workers absorb the rest.
			counts[0] += population - assigned
			assigned = population
		}
	}

	return Counts{Workers: counts[0], Worshippers: counts[1], Defenders: counts[2]}
}

func clampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
