package world

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"hexreign.gg/internal/sim/model"
	"hexreign.gg/internal/sim/npc"
)

// JournalVersion marks the journal record layout. Bump it when StartRecord
// or TickRecord change shape.
const JournalVersion = "1"

// StartRecord pins everything a replay needs to rebuild tick zero: the map
// seed, the tick length, and the seats in order.
type StartRecord struct {
	Version   string       `json:"version"`
	Seed      int64        `json:"seed"`
	TickMs    int64        `json:"tick_ms"`
	Players   []PlayerSpec `json:"players"`
	StartedAt time.Time    `json:"started_at"`
}

// TickRecord is one journal entry: the intents applied since the previous
// tick in application order, the advance that closed the window, and the
// digest of the snapshot the tick produced.
type TickRecord struct {
	Tick    uint64         `json:"tick"`
	ClockMs int64          `json:"clock_ms"`
	DeltaMs int64          `json:"delta_ms"`
	Intents []model.Intent `json:"intents,omitempty"`
	Digest  string         `json:"digest"`
}

// TickSink receives the journal stream: one start record as the loop opens,
// then one record per tick. The host loop waits on every write, so
// implementations should buffer or hand off quickly.
type TickSink interface {
	WriteStart(StartRecord) error
	WriteTick(TickRecord) error
}

// Host owns the authoritative snapshot of one match. Intents arrive on an
// inbox and are applied strictly in arrival order; a fixed ticker drives the
// time advances. Every state change publishes a serialized snapshot on
// States, newest wins.
type Host struct {
	eng     *Engine
	advisor *npc.Advisor
	sink    TickSink
	log     *log.Logger

	inbox  chan model.Intent
	stop   chan struct{}
	states chan []byte

	cur     model.Snapshot
	tick    uint64
	applied []model.Intent
}

// HostConfig wires a host. Engine and Start are required; leaving the rest
// zero disables journaling, computer players, and logging respectively.
type HostConfig struct {
	Engine  *Engine
	Start   model.Snapshot
	Sink    TickSink
	Advisor *npc.Advisor
	Logger  *log.Logger
}

func NewHost(cfg HostConfig) *Host {
	lg := cfg.Logger
	if lg == nil {
		lg = log.New(io.Discard, "", 0)
	}
	return &Host{
		eng:     cfg.Engine,
		advisor: cfg.Advisor,
		sink:    cfg.Sink,
		log:     lg,
		inbox:   make(chan model.Intent, 256),
		stop:    make(chan struct{}),
		states:  make(chan []byte, 1),
		cur:     cfg.Start,
	}
}

// Submit queues an intent for the host loop. It never blocks: when the inbox
// is full the intent is dropped and false returned, which a client
// experiences the same way as a silent rejection.
func (h *Host) Submit(in model.Intent) bool {
	select {
	case h.inbox <- in:
		return true
	default:
		return false
	}
}

// States yields serialized snapshots, newest wins. A slow reader only ever
// misses intermediate states, never the latest one.
func (h *Host) States() <-chan []byte { return h.states }

// Snapshot returns the host's current state. It is safe only before Run
// starts or after it returns; in between the loop owns the snapshot.
func (h *Host) Snapshot() model.Snapshot { return h.cur }

// Tick returns how many tick windows have closed, under the same safety
// rules as Snapshot.
func (h *Host) Tick() uint64 { return h.tick }

func (h *Host) Stop() { close(h.stop) }

// Run drives the match until the context ends or Stop is called. Arriving
// intents are applied immediately in arrival order; the ticker closes each
// tick window with a time advance, a journal record, and the computer
// players' reactions.
func (h *Host) Run(ctx context.Context) error {
	if h.sink != nil {
		if err := h.sink.WriteStart(h.startRecord()); err != nil {
			return fmt.Errorf("journal start: %w", err)
		}
	}
	h.publish()

	ticker := time.NewTicker(time.Duration(h.eng.tun.TickMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.stop:
			return nil
		case in := <-h.inbox:
			n := h.apply(in)
		drain:
			for {
				select {
				case in := <-h.inbox:
					n += h.apply(in)
				default:
					break drain
				}
			}
			if n > 0 {
				h.publish()
			}
		case <-ticker.C:
			if err := h.step(h.eng.tun.TickMs); err != nil {
				return err
			}
		}
	}
}

// StepOnce closes one tick window using the same ordering semantics as Run.
// It is primarily intended for deterministic replays and tests.
func (h *Host) StepOnce(deltaMs int64) (tick uint64, digest string, err error) {
	if err := h.step(deltaMs); err != nil {
		return h.tick, "", err
	}
	return h.tick, Digest(&h.cur), nil
}

func (h *Host) apply(in model.Intent) int {
	next, out := h.eng.ApplyIntent(h.cur, in)
	if !out.Applied {
		h.log.Printf("reject %s from %s: %s %s", in.Kind, in.PlayerID, out.Code, out.Reason)
		return 0
	}
	h.cur = next
	h.applied = append(h.applied, in)
	return 1
}

// step closes one tick window: advance, journal, publish, then let the
// computer players react. Advisor proposals go through the same reducer path
// as human intents and land in the next tick's journal record.
func (h *Host) step(deltaMs int64) error {
	h.cur = h.eng.AdvanceTime(h.cur, deltaMs)
	h.tick++
	rec := TickRecord{
		Tick:    h.tick,
		ClockMs: h.cur.ClockMs,
		DeltaMs: deltaMs,
		Intents: h.applied,
		Digest:  Digest(&h.cur),
	}
	h.applied = nil
	if h.sink != nil {
		if err := h.sink.WriteTick(rec); err != nil {
			return fmt.Errorf("journal tick %d: %w", rec.Tick, err)
		}
	}
	h.publish()

	if h.advisor != nil {
		n := 0
		for _, in := range h.advisor.Decide(&h.cur) {
			n += h.apply(in)
		}
		if n > 0 {
			h.publish()
		}
	}
	return nil
}

func (h *Host) publish() {
	b, err := json.Marshal(h.cur)
	if err != nil {
		h.log.Printf("marshal snapshot: %v", err)
		return
	}
	sendLatest(h.states, b)
}

func (h *Host) startRecord() StartRecord {
	specs := make([]PlayerSpec, len(h.cur.Players))
	for i, p := range h.cur.Players {
		specs[i] = PlayerSpec{ID: p.ID, Name: p.Name, NPC: p.NPC, Stance: p.Policy.Stance}
	}
	return StartRecord{
		Version:   JournalVersion,
		Seed:      h.cur.Seed,
		TickMs:    h.eng.tun.TickMs,
		Players:   specs,
		StartedAt: time.Now().UTC(),
	}
}

func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
