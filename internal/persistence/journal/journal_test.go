package journal

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"hexreign.gg/internal/sim/hexmap"
	"hexreign.gg/internal/sim/model"
	"hexreign.gg/internal/sim/tuning"
	"hexreign.gg/internal/sim/world"
)

// placementPair picks two buildable tiles far enough apart that early
// territory rings never touch.
func placementPair(t *testing.T, s *model.Snapshot) (string, string) {
	t.Helper()
	for i := range s.Tiles {
		if !s.Tiles[i].Terrain.Buildable() {
			continue
		}
		for j := i + 1; j < len(s.Tiles); j++ {
			if !s.Tiles[j].Terrain.Buildable() {
				continue
			}
			if hexmap.Distance(s.Tiles[i].Coord, s.Tiles[j].Coord) >= 8 {
				return s.Tiles[i].ID, s.Tiles[j].ID
			}
		}
	}
	t.Fatalf("no placement pair on this map")
	return "", ""
}

func TestJournalRoundTripAndReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.jsonl.zst")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tun := tuning.Default()
	tun.TickMs = 10
	eng := world.New(tun)
	start := eng.NewMatch(7, []world.PlayerSpec{
		{ID: "P1", Name: "Asha"},
		{ID: "P2", Name: "Bram"},
	})
	tileA, tileB := placementPair(t, &start)

	h := world.NewHost(world.HostConfig{Engine: eng, Start: start, Sink: w})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	h.Submit(model.Intent{Kind: model.IntentPlaceStart, PlayerID: "P1", TileID: tileA})
	h.Submit(model.Intent{Kind: model.IntentPlaceStart, PlayerID: "P2", TileID: tileB})

	// Wait until the match is running and a few ticks are journaled.
	deadline := time.Now().Add(2 * time.Second)
	seenRunning := false
	for !seenRunning {
		if time.Now().After(deadline) {
			t.Fatalf("match never reached RUNNING")
		}
		select {
		case b := <-h.States():
			var snap model.Snapshot
			if err := json.Unmarshal(b, &snap); err != nil {
				t.Fatalf("unmarshal state: %v", err)
			}
			seenRunning = snap.Phase == model.PhaseRunning && snap.ClockMs >= 30
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("run: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	rec, recs, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rec.Version != world.JournalVersion || rec.Seed != 7 || rec.TickMs != 10 {
		t.Fatalf("start record: %+v", rec)
	}
	if len(rec.Players) != 2 || rec.Players[0].ID != "P1" {
		t.Fatalf("players: %+v", rec.Players)
	}
	if len(recs) == 0 {
		t.Fatalf("no tick records")
	}
	placed := 0
	for _, r := range recs {
		placed += len(r.Intents)
	}
	if placed != 2 {
		t.Fatalf("journaled intents: got %d want 2", placed)
	}

	final, err := world.Replay(world.New(tun), rec, recs)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if got, want := world.Digest(&final), recs[len(recs)-1].Digest; got != want {
		t.Fatalf("final digest: got %s want %s", got, want)
	}
}

func TestJournalRejectsForeignVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.jsonl.zst")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.WriteStart(world.StartRecord{Version: "999", Seed: 1}); err != nil {
		t.Fatalf("write start: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, _, err := Read(path); err == nil {
		t.Fatalf("expected version error")
	}
}

func TestJournalEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.jsonl.zst")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, _, err := Read(path); err == nil {
		t.Fatalf("expected empty journal error")
	}
}

func TestWriteAfterCloseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.jsonl.zst")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.WriteTick(world.TickRecord{Tick: 1}); err == nil {
		t.Fatalf("expected write-after-close error")
	}
}
