package world

import (
	"fmt"

	"hexreign.gg/internal/sim/model"
)

// Replay folds a journal back into a final snapshot, re-verifying the digest
// of every tick. The engine must carry the same tuning the recording host
// ran with; the journal does not embed it. The first divergence stops the
// fold and comes back as an error alongside the snapshot reached so far.
func Replay(eng *Engine, start StartRecord, recs []TickRecord) (model.Snapshot, error) {
	s := eng.NewMatch(start.Seed, start.Players)
	for _, rec := range recs {
		for _, in := range rec.Intents {
			next, out := eng.ApplyIntent(s, in)
			if !out.Applied {
				return s, fmt.Errorf("tick %d: journaled intent %s replayed as %s (%s)", rec.Tick, in.Kind, out.Code, out.Reason)
			}
			s = next
		}
		s = eng.AdvanceTime(s, rec.DeltaMs)
		if d := Digest(&s); d != rec.Digest {
			return s, fmt.Errorf("tick %d: digest mismatch: got %s want %s", rec.Tick, d, rec.Digest)
		}
	}
	return s, nil
}
