package main

import (
	"errors"
	"testing"

	"hexreign.gg/internal/sim/world"
)

func TestSeatsClaimRelease(t *testing.T) {
	st := &seats{open: []string{"P1", "P2"}, byPeer: make(map[string]string)}

	a, ok := st.claim("peer_1")
	if !ok || a != "P1" {
		t.Fatalf("first claim: got %q %v", a, ok)
	}
	b, ok := st.claim("peer_2")
	if !ok || b != "P2" {
		t.Fatalf("second claim: got %q %v", b, ok)
	}
	if _, ok := st.claim("peer_3"); ok {
		t.Fatalf("claim with no seats free should fail")
	}

	if id, ok := st.release("peer_1"); !ok || id != "P1" {
		t.Fatalf("release: got %q %v", id, ok)
	}
	if _, ok := st.release("peer_1"); ok {
		t.Fatalf("double release should fail")
	}
	if id, ok := st.claim("peer_3"); !ok || id != "P1" {
		t.Fatalf("reclaim of freed seat: got %q %v", id, ok)
	}
}

type sinkSpy struct {
	starts int
	ticks  int
	err    error
}

func (s *sinkSpy) WriteStart(world.StartRecord) error { s.starts++; return s.err }
func (s *sinkSpy) WriteTick(world.TickRecord) error   { s.ticks++; return s.err }

func TestMultiSinkFanOut(t *testing.T) {
	a := &sinkSpy{}
	b := &sinkSpy{}
	m := multiSink{a: a, b: b}

	if err := m.WriteStart(world.StartRecord{}); err != nil {
		t.Fatalf("WriteStart: %v", err)
	}
	if err := m.WriteTick(world.TickRecord{}); err != nil {
		t.Fatalf("WriteTick: %v", err)
	}
	if a.starts != 1 || a.ticks != 1 || b.starts != 1 || b.ticks != 1 {
		t.Fatalf("both sinks should see every record: a=%+v b=%+v", a, b)
	}
}

func TestMultiSinkJournalErrorPropagates(t *testing.T) {
	boom := errors.New("disk full")
	a := &sinkSpy{err: boom}
	b := &sinkSpy{}
	m := multiSink{a: a, b: b}

	if err := m.WriteTick(world.TickRecord{}); !errors.Is(err, boom) {
		t.Fatalf("journal error should propagate, got %v", err)
	}
	if b.ticks != 1 {
		t.Fatalf("index sink should still see the record")
	}

	// An index-side failure must never abort the match.
	m = multiSink{a: b, b: a}
	if err := m.WriteTick(world.TickRecord{}); err != nil {
		t.Fatalf("index error should be swallowed, got %v", err)
	}
}
