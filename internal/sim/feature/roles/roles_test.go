package roles

import (
	"math"
	"testing"
)

func TestAllocateTable(t *testing.T) {
	cases := []struct {
		name    string
		pop     int
		w, p, d int
		want    Counts
	}{
		{"standard split", 10, 60, 20, 20, Counts{6, 2, 2}},
		{"small settlement", 5, 60, 20, 20, Counts{3, 1, 1}},
		{"all workers", 10, 100, 0, 0, Counts{10, 0, 0}},
		{"zero sum defaults to workers", 10, 0, 0, 0, Counts{10, 0, 0}},
		{"even halves, remainder to workers", 7, 50, 50, 0, Counts{4, 3, 0}},
		{"thirds, remainder priority order", 10, 33, 33, 33, Counts{4, 3, 3}},
		{"single person to worshippers", 1, 0, 100, 0, Counts{0, 1, 0}},
		{"zero population", 0, 60, 20, 20, Counts{}},
		{"clamped out-of-range inputs", 10, 150, -20, 50, Counts{7, 0, 3}},
	}
	for _, tc := range cases {
		got := Allocate(tc.pop, tc.w, tc.p, tc.d)
		if got != tc.want {
			t.Fatalf("%s: got %+v want %+v", tc.name, got, tc.want)
		}
	}
}

func TestAllocateSumsExactly(t *testing.T) {
	pcts := []int{0, 1, 10, 33, 50, 67, 100, 130, -5}
	for pop := 0; pop <= 60; pop++ {
		for _, w := range pcts {
			for _, p := range pcts {
				for _, d := range pcts {
					got := Allocate(pop, w, p, d)
					sum := got.Workers + got.Worshippers + got.Defenders
					want := pop
					if pop < 0 {
						want = 0
					}
					if sum != want {
						t.Fatalf("pop=%d pcts=%d/%d/%d: sum got %d want %d (%+v)",
							pop, w, p, d, sum, want, got)
					}
					if got.Workers < 0 || got.Worshippers < 0 || got.Defenders < 0 {
						t.Fatalf("pop=%d pcts=%d/%d/%d: negative count %+v", pop, w, p, d, got)
					}
				}
			}
		}
	}
}

func TestAllocateWithinFloorCeilOfShare(t *testing.T) {
	pop := 17
	w, p, d := 45, 35, 20
	got := Allocate(pop, w, p, d)

	total := float64(w + p + d)
	check := func(name string, count int, pct int) {
		raw := float64(pop) * float64(pct) / total
		lo, hi := int(math.Floor(raw)), int(math.Ceil(raw))
		if count < lo || count > hi {
			t.Fatalf("%s: count %d outside [%d,%d] for raw %v", name, count, lo, hi, raw)
		}
	}
	check("workers", got.Workers, w)
	check("worshippers", got.Worshippers, p)
	check("defenders", got.Defenders, d)
}
