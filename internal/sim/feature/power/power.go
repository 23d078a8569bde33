// Package power owns deity-power buff semantics: the production multipliers
// active buffs grant and their expiry by clock comparison.
package power

import "hexreign.gg/internal/sim/model"

// Multipliers returns the worker and worshipper production factors for one
// settlement. Each active BLESSED_HARVEST multiplies worker output by `each`;
// each INSPIRED_WORSHIP does the same for worshipper output. Factors are
// recomputed fresh from the live buff set on every call, never cached.
func Multipliers(s *model.Snapshot, settlementID string, each float64) (workers, worshippers float64) {
	workers, worshippers = 1, 1
	for i := range s.Buffs {
		b := &s.Buffs[i]
		if b.SettlementID != settlementID {
			continue
		}
		switch b.Power {
		case model.PowerBlessedHarvest:
			workers *= each
		case model.PowerInspiredWorship:
			worshippers *= each
		}
	}
	return workers, worshippers
}

// Prune drops every buff whose expiry is at or before the snapshot clock.
func Prune(s *model.Snapshot) {
	kept := s.Buffs[:0]
	for _, b := range s.Buffs {
		if b.ExpiresAtMs > s.ClockMs {
			kept = append(kept, b)
		}
	}
	s.Buffs = kept
}
