package indexdb

import (
	"path/filepath"
	"testing"
	"time"

	"hexreign.gg/internal/sim/model"
	"hexreign.gg/internal/sim/world"
)

func TestIndexRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	idx, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	started := time.Date(2025, 7, 14, 12, 0, 0, 0, time.UTC)
	start := world.StartRecord{
		Version:   world.JournalVersion,
		Seed:      7,
		TickMs:    1000,
		Players:   []world.PlayerSpec{{ID: "P1", Name: "Asha"}, {ID: "P2", Name: "Bram"}},
		StartedAt: started,
	}
	idx.RecordMatch("K7Q2ZD", start, "/data/journals/K7Q2ZD.jsonl.zst")
	idx.RecordTick("K7Q2ZD", world.TickRecord{Tick: 1, ClockMs: 1000, DeltaMs: 1000, Digest: "aaaa"})
	idx.RecordTick("K7Q2ZD", world.TickRecord{
		Tick: 2, ClockMs: 2000, DeltaMs: 1000, Digest: "bbbb",
		Intents: []model.Intent{{Kind: model.IntentPlaceStart, PlayerID: "P1", TileID: "H0001"}},
	})

	final := model.Snapshot{
		Phase:    model.PhaseGameOver,
		ClockMs:  2000,
		WinnerID: "P1",
		Players:  []model.Player{{ID: "P1", VictoryPoints: 10}},
	}
	idx.RecordResult("K7Q2ZD", &final)

	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopen and query back.
	idx, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx.Close()

	matches, err := idx.Matches()
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("matches: got %d want 1", len(matches))
	}
	m := matches[0]
	if m.Code != "K7Q2ZD" || m.Seed != 7 || m.TickMs != 1000 || m.Players != 2 {
		t.Fatalf("match row: %+v", m)
	}
	if m.StartedAt != started.Format(time.RFC3339Nano) {
		t.Fatalf("started_at: got %s", m.StartedAt)
	}

	ticks, err := idx.Ticks("K7Q2ZD")
	if err != nil {
		t.Fatalf("ticks: %v", err)
	}
	if len(ticks) != 2 {
		t.Fatalf("ticks: got %d want 2", len(ticks))
	}
	if ticks[0].Tick != 1 || ticks[0].Digest != "aaaa" || ticks[0].Intents != 0 {
		t.Fatalf("tick 1 row: %+v", ticks[0])
	}
	if ticks[1].Tick != 2 || ticks[1].Digest != "bbbb" || ticks[1].Intents != 1 {
		t.Fatalf("tick 2 row: %+v", ticks[1])
	}

	res, err := idx.Result("K7Q2ZD")
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.WinnerID != "P1" || res.VictoryPts != 10 || res.ClockMs != 2000 {
		t.Fatalf("result row: %+v", res)
	}
}

func TestIndexUpsertsTickDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	idx.RecordTick("ROOM01", world.TickRecord{Tick: 5, ClockMs: 5000, Digest: "old"})
	idx.RecordTick("ROOM01", world.TickRecord{Tick: 5, ClockMs: 5000, Digest: "new"})
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	idx, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx.Close()

	ticks, err := idx.Ticks("ROOM01")
	if err != nil {
		t.Fatalf("ticks: %v", err)
	}
	if len(ticks) != 1 || ticks[0].Digest != "new" {
		t.Fatalf("expected upsert to keep latest digest: %+v", ticks)
	}
}

func TestIndexQueueDropStats(t *testing.T) {
	x := &Index{ch: make(chan req, 1)}
	x.ch <- req{kind: reqTick}

	x.RecordMatch("R", world.StartRecord{}, "/p")
	x.RecordTick("R", world.TickRecord{Tick: 1})
	x.RecordResult("R", &model.Snapshot{})

	st := x.Stats()
	if st.DropMatchTotal != 1 || st.DropTickTotal != 1 || st.DropResultTotal != 1 {
		t.Fatalf("drop totals: %+v", st)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue stats: depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}
}
