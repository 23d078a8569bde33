// Command host runs one authoritative match. It opens a room on the relay,
// seats joining peers, feeds their intents through the reducer, and
// broadcasts every state change back through the room. The journal, the
// final-state archive, and the sqlite index all land under -data.
package main

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gorilla/websocket"

	"hexreign.gg/internal/persistence/indexdb"
	"hexreign.gg/internal/persistence/journal"
	"hexreign.gg/internal/persistence/snapshot"
	"hexreign.gg/internal/protocol"
	"hexreign.gg/internal/sim/hexmap"
	"hexreign.gg/internal/sim/model"
	"hexreign.gg/internal/sim/npc"
	"hexreign.gg/internal/sim/tuning"
	"hexreign.gg/internal/sim/world"
)

type envConfig struct {
	RelayURL   string `env:"HEXREIGN_RELAY_URL" envDefault:"ws://127.0.0.1:8420/ws"`
	DataDir    string `env:"HEXREIGN_DATA_DIR" envDefault:"./data"`
	TuningPath string `env:"HEXREIGN_TUNING" envDefault:"./configs/tuning.yaml"`
}

func main() {
	logger := log.New(os.Stdout, "[host] ", log.LstdFlags|log.Lmicroseconds)

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		logger.Fatalf("env: %v", err)
	}
	var (
		relayURL   = flag.String("relay", ec.RelayURL, "relay websocket URL")
		roomName   = flag.String("name", "hexreign", "room name")
		seed       = flag.Int64("seed", 0, "map seed (0 derives one from the room code)")
		tuningPath = flag.String("tuning", ec.TuningPath, "gameplay tuning YAML")
		dataDir    = flag.String("data", ec.DataDir, "journal/archive/index directory")
		humans     = flag.Int("humans", 1, "seats held open for joining peers")
		npcs       = flag.Int("npcs", 1, "computer-player seats")
		npcStance  = flag.String("npc_stance", string(model.StanceAggressive), "stance for the computer players")
	)
	flag.Parse()

	if *humans+*npcs < 1 {
		logger.Fatalf("need at least one seat")
	}

	ctx, cancel := signalContext()
	defer cancel()

	tun, err := tuning.Load(*tuningPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("tuning: %v", err)
		}
		logger.Printf("tuning %s not found, using defaults", *tuningPath)
	}

	conn, _, err := websocket.DefaultDialer.Dial(*relayURL, nil)
	if err != nil {
		logger.Fatalf("dial relay %s: %v", *relayURL, err)
	}
	defer conn.Close()

	room, err := openRoom(conn, *roomName)
	if err != nil {
		logger.Fatalf("open room: %v", err)
	}

	mapSeed := *seed
	if mapSeed == 0 {
		mapSeed = hexmap.DeriveSeed(room.Code)
	}
	logger.Printf("room %s open on %s (seed %d, %d human + %d npc seats)",
		room.Code, *relayURL, mapSeed, *humans, *npcs)

	specs := make([]world.PlayerSpec, 0, *humans+*npcs)
	for i := 0; i < *humans; i++ {
		specs = append(specs, world.PlayerSpec{Name: fmt.Sprintf("Player %d", i+1)})
	}
	for i := 0; i < *npcs; i++ {
		specs = append(specs, world.PlayerSpec{
			Name:   fmt.Sprintf("Keeper %d", i+1),
			NPC:    true,
			Stance: model.Stance(*npcStance),
		})
	}

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		logger.Fatalf("data dir: %v", err)
	}
	journalPath := filepath.Join(*dataDir, room.Code+".journal.zst")
	jw, err := journal.Create(journalPath)
	if err != nil {
		logger.Fatalf("journal: %v", err)
	}
	idx, err := indexdb.Open(filepath.Join(*dataDir, "index.db"))
	if err != nil {
		logger.Fatalf("index: %v", err)
	}

	eng := world.New(tun)
	h := world.NewHost(world.HostConfig{
		Engine:  eng,
		Start:   eng.NewMatch(mapSeed, specs),
		Sink:    multiSink{a: jw, b: indexSink{idx: idx, code: room.Code, journal: journalPath}},
		Advisor: npc.New(tun, advisorSeed()),
		Logger:  logger,
	})

	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	sess := &session{conn: conn, out: make(chan []byte, 64)}
	go sess.writeLoop(ctx)

	var resultDone atomic.Bool
	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		statePump(ctx, h, sess, idx, room.Code, &resultDone, logger)
	}()

	go func() {
		<-ctx.Done()
		conn.Close() // unblocks the read loop
	}()

	readLoop(conn, h, sess, tun, mapSeed, *humans, logger)

	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		logger.Printf("host loop: %v", err)
	}
	// The pump may still be recording a result; the index must outlive it.
	<-pumpDone

	final := h.Snapshot()
	if err := jw.Close(); err != nil {
		logger.Printf("journal close: %v", err)
	}
	if final.Phase == model.PhaseGameOver && resultDone.CompareAndSwap(false, true) {
		idx.RecordResult(room.Code, &final)
	}

	arcPath := filepath.Join(*dataDir, room.Code+".snap.zst")
	if err := snapshot.WriteArchive(arcPath, snapshot.ArchiveV1{
		Header: snapshot.Header{Version: 1, RoomCode: room.Code, Tick: h.Tick(), ClockMs: final.ClockMs},
		Digest: world.Digest(&final),
		State:  final,
	}); err != nil {
		logger.Printf("archive: %v", err)
	} else {
		logger.Printf("archived %s (tick %d, clock %dms)", arcPath, h.Tick(), final.ClockMs)
	}

	st := idx.Stats()
	if n := st.DropMatchTotal + st.DropTickTotal + st.DropResultTotal; n > 0 {
		logger.Printf("index dropped %d writes under load", n)
	}
	if err := idx.Close(); err != nil {
		logger.Printf("index close: %v", err)
	}
}

type roomInfo struct {
	Code   string
	PeerID string
}

// openRoom runs the relay handshake: CREATE_ROOM out, ROOM or ERROR back.
func openRoom(conn *websocket.Conn, name string) (roomInfo, error) {
	req := protocol.CreateRoomMsg{Type: protocol.TypeCreateRoom, ProtocolVersion: protocol.Version, Name: name}
	if err := conn.WriteJSON(req); err != nil {
		return roomInfo{}, err
	}
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return roomInfo{}, err
	}
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return roomInfo{}, err
	}
	switch base.Type {
	case protocol.TypeRoom:
		var m protocol.RoomMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return roomInfo{}, err
		}
		return roomInfo{Code: m.Code, PeerID: m.PeerID}, nil
	case protocol.TypeError:
		var m protocol.ErrorMsg
		_ = json.Unmarshal(msg, &m)
		return roomInfo{}, fmt.Errorf("relay rejected: %s %s", m.Code, m.Message)
	default:
		return roomInfo{}, fmt.Errorf("unexpected %s frame", base.Type)
	}
}

// readLoop owns the relay connection's read side: it seats joining peers,
// frees seats on departure, and feeds forwarded intents to the host. It
// returns when the connection drops or the relay closes the room.
func readLoop(conn *websocket.Conn, h *world.Host, sess *session, tun tuning.Tuning, mapSeed int64, humanSeats int, logger *log.Logger) {
	// NewMatch seats players in spec order as P1..Pn; humans came first.
	st := &seats{byPeer: make(map[string]string)}
	for i := 0; i < humanSeats; i++ {
		st.open = append(st.open, fmt.Sprintf("P%d", i+1))
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypePeerJoined:
			var m protocol.PeerEventMsg
			if err := json.Unmarshal(msg, &m); err != nil {
				continue
			}
			playerID, ok := st.claim(m.PeerID)
			if !ok {
				logger.Printf("peer %s (%s) joined with no seat free, spectating", m.PeerID, m.Name)
				continue
			}
			logger.Printf("peer %s (%s) seated as %s", m.PeerID, m.Name, playerID)
			sess.send(m.PeerID, protocol.WelcomeMsg{
				Type:            protocol.TypeWelcome,
				ProtocolVersion: protocol.Version,
				PlayerID:        playerID,
				Seed:            mapSeed,
				MapRadius:       tun.Map.Radius,
				TickMs:          tun.TickMs,
			})

		case protocol.TypePeerLeft:
			var m protocol.PeerEventMsg
			if err := json.Unmarshal(msg, &m); err != nil {
				continue
			}
			if playerID, ok := st.release(m.PeerID); ok {
				logger.Printf("peer %s left, seat %s open again", m.PeerID, playerID)
			}

		case protocol.TypeForward:
			var f protocol.ForwardMsg
			if err := json.Unmarshal(msg, &f); err != nil {
				continue
			}
			playerID, ok := st.byPeer[f.From]
			if !ok {
				continue // spectators cannot act
			}
			inner, err := protocol.DecodeBase(f.Payload)
			if err != nil || inner.Type != protocol.TypeIntent {
				continue
			}
			var im protocol.IntentMsg
			if err := json.Unmarshal(f.Payload, &im); err != nil {
				continue
			}
			// The seat is authoritative, whatever the client claimed.
			im.Intent.PlayerID = playerID
			if !h.Submit(im.Intent) {
				logger.Printf("inbox full, dropped %s from %s", im.Intent.Kind, playerID)
			}

		case protocol.TypeRoomClosed:
			var m protocol.RoomClosedMsg
			_ = json.Unmarshal(msg, &m)
			logger.Printf("room closed by relay: %s", m.Reason)
			return

		case protocol.TypeError:
			var m protocol.ErrorMsg
			_ = json.Unmarshal(msg, &m)
			logger.Printf("relay error: %s %s", m.Code, m.Message)
		}
	}
}

// statePump broadcasts every published snapshot to the room and records the
// result row the first time the match reports GAME_OVER.
func statePump(ctx context.Context, h *world.Host, sess *session, idx *indexdb.Index, code string, resultDone *atomic.Bool, logger *log.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case b := <-h.States():
			if !sess.send("", protocol.StateMsg{Type: protocol.TypeState, Snapshot: b}) {
				logger.Printf("state broadcast dropped, relay writer backed up")
			}
			var peek struct {
				Phase    model.Phase `json:"phase"`
				WinnerID string      `json:"winner_id"`
			}
			if err := json.Unmarshal(b, &peek); err != nil || peek.Phase != model.PhaseGameOver {
				continue
			}
			if resultDone.CompareAndSwap(false, true) {
				logger.Printf("game over, winner %s", peek.WinnerID)
				var s model.Snapshot
				if err := json.Unmarshal(b, &s); err == nil {
					idx.RecordResult(code, &s)
				}
			}
		}
	}
}

// seats maps relay peers to the human player seats, first come first served.
// Only the read loop touches it.
type seats struct {
	open   []string
	byPeer map[string]string
}

func (s *seats) claim(peerID string) (string, bool) {
	if len(s.open) == 0 {
		return "", false
	}
	id := s.open[0]
	s.open = s.open[1:]
	s.byPeer[peerID] = id
	return id, true
}

func (s *seats) release(peerID string) (string, bool) {
	id, ok := s.byPeer[peerID]
	if !ok {
		return "", false
	}
	delete(s.byPeer, peerID)
	s.open = append(s.open, id)
	return id, true
}

// session serializes websocket writes: senders queue frames, writeLoop owns
// the connection's write side.
type session struct {
	conn *websocket.Conn
	out  chan []byte
}

func (s *session) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case b := <-s.out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := s.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		}
	}
}

// send queues one relay SEND frame; an empty to broadcasts to the room.
// Returns false when the write queue is full.
func (s *session) send(to string, payload any) bool {
	pb, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	b, err := json.Marshal(protocol.SendMsg{Type: protocol.TypeSend, To: to, Payload: pb})
	if err != nil {
		return false
	}
	select {
	case s.out <- b:
		return true
	default:
		return false
	}
}

// multiSink fans the journal stream out to the zstd journal and the sqlite
// index. Journal errors abort the match; the index path never errors, it
// drops and counts instead.
type multiSink struct {
	a world.TickSink
	b world.TickSink
}

func (m multiSink) WriteStart(rec world.StartRecord) error {
	if m.b != nil {
		_ = m.b.WriteStart(rec)
	}
	if m.a != nil {
		return m.a.WriteStart(rec)
	}
	return nil
}

func (m multiSink) WriteTick(rec world.TickRecord) error {
	if m.b != nil {
		_ = m.b.WriteTick(rec)
	}
	if m.a != nil {
		return m.a.WriteTick(rec)
	}
	return nil
}

// indexSink adapts the sqlite index to the journal stream.
type indexSink struct {
	idx     *indexdb.Index
	code    string
	journal string
}

func (s indexSink) WriteStart(rec world.StartRecord) error {
	s.idx.RecordMatch(s.code, rec, s.journal)
	return nil
}

func (s indexSink) WriteTick(rec world.TickRecord) error {
	s.idx.RecordTick(s.code, rec)
	return nil
}

// advisorSeed draws the computer players' rng seed from the OS. Replays never
// rerun the advisor; the journal already carries its decisions as intents.
func advisorSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
