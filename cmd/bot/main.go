// Command bot joins a room by code and plays one seat using the same stance
// policies the host runs for its computer players. Handy for filling a match
// or for soaking a relay.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gorilla/websocket"

	"hexreign.gg/internal/protocol"
	"hexreign.gg/internal/sim/model"
	"hexreign.gg/internal/sim/npc"
	"hexreign.gg/internal/sim/tuning"
)

// The relay reaps connections that stay silent past its read deadline;
// pinging well inside that window keeps a watching bot alive.
const keepalive = 25 * time.Second

type envConfig struct {
	RelayURL   string `env:"HEXREIGN_RELAY_URL" envDefault:"ws://127.0.0.1:8420/ws"`
	TuningPath string `env:"HEXREIGN_TUNING" envDefault:"./configs/tuning.yaml"`
}

func main() {
	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		logger.Fatalf("env: %v", err)
	}
	var (
		relayURL   = flag.String("relay", ec.RelayURL, "relay websocket URL")
		code       = flag.String("code", "", "room code (required)")
		name       = flag.String("name", "bot", "display name")
		tuningPath = flag.String("tuning", ec.TuningPath, "gameplay tuning YAML; should match the host's")
		seed       = flag.Int64("seed", 0, "decision rng seed (0 uses the clock)")
		think      = flag.Duration("think", time.Second, "minimum pause between decision rounds")
	)
	flag.Parse()

	if *code == "" {
		logger.Fatalf("missing -code")
	}

	tun, err := tuning.Load(*tuningPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("tuning: %v", err)
		}
		logger.Printf("tuning %s not found, using defaults", *tuningPath)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	adv := npc.New(tun, rngSeed)

	ctx, cancel := signalContext()
	defer cancel()

	conn, _, err := websocket.DefaultDialer.Dial(*relayURL, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	go func() {
		<-ctx.Done()
		conn.Close() // unblocks the read loop
	}()

	join := protocol.JoinRoomMsg{Type: protocol.TypeJoinRoom, ProtocolVersion: protocol.Version, Code: *code, Name: *name}
	if err := conn.WriteJSON(join); err != nil {
		logger.Fatalf("send JOIN_ROOM: %v", err)
	}

	go func() {
		t := time.NewTicker(keepalive)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			}
		}
	}()

	var (
		playerID  string
		lastThink time.Time
	)
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
		case protocol.TypeJoined:
			var m protocol.JoinedMsg
			if err := json.Unmarshal(msg, &m); err != nil {
				continue
			}
			logger.Printf("joined room %s as %s (host %s)", m.Code, m.PeerID, m.HostID)

		case protocol.TypeForward:
			var f protocol.ForwardMsg
			if err := json.Unmarshal(msg, &f); err != nil {
				continue
			}
			inner, err := protocol.DecodeBase(f.Payload)
			if err != nil {
				continue
			}
			switch inner.Type {
			case protocol.TypeWelcome:
				var w protocol.WelcomeMsg
				if err := json.Unmarshal(f.Payload, &w); err != nil {
					continue
				}
				playerID = w.PlayerID
				logger.Printf("WELCOME player_id=%s seed=%d map_radius=%d tick_ms=%d",
					w.PlayerID, w.Seed, w.MapRadius, w.TickMs)

			case protocol.TypeState:
				var sm protocol.StateMsg
				if err := json.Unmarshal(f.Payload, &sm); err != nil {
					continue
				}
				var s model.Snapshot
				if err := json.Unmarshal(sm.Snapshot, &s); err != nil {
					continue
				}
				if s.Phase == model.PhaseGameOver {
					logger.Printf("game over, winner %s", s.WinnerID)
					return
				}
				// Without a WELCOME we are just spectating.
				if playerID == "" || time.Since(lastThink) < *think {
					continue
				}
				lastThink = time.Now()
				act(conn, logger, adv, &s, playerID)
			}

		case protocol.TypeRoomClosed:
			var m protocol.RoomClosedMsg
			_ = json.Unmarshal(msg, &m)
			logger.Printf("room closed: %s", m.Reason)
			return

		case protocol.TypeError:
			var m protocol.ErrorMsg
			_ = json.Unmarshal(msg, &m)
			logger.Printf("relay error: %s %s", m.Code, m.Message)
		}
	}
}

// act proposes intents for our seat and sends them to the host.
func act(conn *websocket.Conn, logger *log.Logger, adv *npc.Advisor, s *model.Snapshot, playerID string) {
	for _, in := range adv.DecideFor(s, playerID) {
		in.TimeMs = s.ClockMs
		pb, err := json.Marshal(protocol.IntentMsg{Type: protocol.TypeIntent, Intent: in})
		if err != nil {
			continue
		}
		logger.Printf("intent %s", in.Kind)
		_ = conn.WriteJSON(protocol.SendMsg{Type: protocol.TypeSend, Payload: pb})
	}
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
