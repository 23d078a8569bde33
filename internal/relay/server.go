package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"hexreign.gg/internal/protocol"
)

const (
	handshakeWait = 5 * time.Second
	writeWait     = 5 * time.Second
	readWait      = 60 * time.Second

	// Inbound frames per connection. A host re-broadcasting every applied
	// intent stays far under this; floods get ERROR E_RATE_LIMIT.
	frameRate  = 120
	frameBurst = 240
)

type Server struct {
	reg *Registry
	log *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(reg *Registry, logger *log.Logger) *Server {
	return &Server{
		reg: reg,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		room, self, err := s.handshake(conn)
		if err != nil {
			return // handshake already wrote the ERROR frame
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-self.out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		if self.ID != room.HostID() {
			b, _ := json.Marshal(protocol.PeerEventMsg{Type: protocol.TypePeerJoined, PeerID: self.ID, Name: self.Name})
			room.Broadcast(self.ID, b)
		}

		// Quiet clients (a bot with nothing to say) ping to stay ahead of
		// the read deadline.
		conn.SetPingHandler(func(appData string) error {
			_ = conn.SetReadDeadline(time.Now().Add(readWait))
			return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeWait))
		})

		// Reader loop.
		lim := rate.NewLimiter(rate.Limit(frameRate), frameBurst)
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readWait))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			if !lim.Allow() {
				self.Send(errFrame(protocol.ErrRateLimit, "too many frames"))
				continue
			}
			s.route(room, self, msg)
		}

		s.leave(room, self)
	}
}

// handshake reads the first frame, which must be CREATE_ROOM or JOIN_ROOM
// carrying the right protocol version, and answers ROOM or JOINED.
func (s *Server) handshake(conn *websocket.Conn) (*Room, *Peer, error) {
	_ = conn.SetReadDeadline(time.Now().Add(handshakeWait))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, nil, err
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil {
		_ = writeNow(conn, errFrame(protocol.ErrProtoBadRequest, "bad json"))
		return nil, nil, err
	}
	if base.ProtocolVersion != protocol.Version {
		_ = writeNow(conn, errFrame(protocol.ErrVersion, "want "+protocol.Version))
		return nil, nil, fmt.Errorf("protocol version %q", base.ProtocolVersion)
	}

	switch base.Type {
	case protocol.TypeCreateRoom:
		var req protocol.CreateRoomMsg
		if err := json.Unmarshal(msg, &req); err != nil {
			_ = writeNow(conn, errFrame(protocol.ErrProtoBadRequest, "bad CREATE_ROOM"))
			return nil, nil, err
		}
		room, host, err := s.reg.Create(req.Name)
		if err != nil {
			_ = writeNow(conn, errFrame(protocol.ErrInternal, "create room"))
			return nil, nil, err
		}
		resp, _ := json.Marshal(protocol.RoomMsg{Type: protocol.TypeRoom, Code: room.Code, PeerID: host.ID})
		if err := writeNow(conn, resp); err != nil {
			s.reg.Drop(room.Code)
			return nil, nil, err
		}
		s.log.Printf("room %s opened by %s", room.Code, host.ID)
		return room, host, nil

	case protocol.TypeJoinRoom:
		var req protocol.JoinRoomMsg
		if err := json.Unmarshal(msg, &req); err != nil {
			_ = writeNow(conn, errFrame(protocol.ErrProtoBadRequest, "bad JOIN_ROOM"))
			return nil, nil, err
		}
		room, p, err := s.reg.Join(req.Code, req.Name)
		if err != nil {
			_ = writeNow(conn, errFrame(joinErrCode(err), req.Code))
			return nil, nil, err
		}
		resp, _ := json.Marshal(protocol.JoinedMsg{Type: protocol.TypeJoined, Code: room.Code, PeerID: p.ID, HostID: room.HostID()})
		if err := writeNow(conn, resp); err != nil {
			room.Remove(p.ID)
			return nil, nil, err
		}
		s.log.Printf("peer %s joined room %s", p.ID, room.Code)
		return room, p, nil

	default:
		_ = writeNow(conn, errFrame(protocol.ErrProtoBadRequest, "expected CREATE_ROOM or JOIN_ROOM"))
		return nil, nil, fmt.Errorf("first frame %q", base.Type)
	}
}

// route forwards one SEND. Addressing: an explicit to targets that peer; from
// the host an empty to broadcasts to everyone else; from a peer an empty to
// reaches the host.
func (s *Server) route(room *Room, from *Peer, msg []byte) {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		from.Send(errFrame(protocol.ErrProtoBadRequest, "bad json"))
		return
	}
	if base.Type != protocol.TypeSend {
		from.Send(errFrame(protocol.ErrProtoBadRequest, "expected SEND"))
		return
	}
	var send protocol.SendMsg
	if err := json.Unmarshal(msg, &send); err != nil || len(send.Payload) == 0 {
		from.Send(errFrame(protocol.ErrProtoBadRequest, "bad SEND"))
		return
	}

	fwd, _ := json.Marshal(protocol.ForwardMsg{Type: protocol.TypeForward, From: from.ID, Payload: send.Payload})
	hostID := room.HostID()
	switch {
	case send.To != "":
		target, ok := room.Peer(send.To)
		if !ok {
			from.Send(errFrame(protocol.ErrPeerNotFound, send.To))
			return
		}
		if !target.Send(fwd) {
			s.log.Printf("room %s: dropped frame for %s (slow consumer)", room.Code, target.ID)
		}
	case from.ID == hostID:
		if n := room.Broadcast(hostID, fwd); n > 0 {
			s.log.Printf("room %s: dropped frames for %d slow consumers", room.Code, n)
		}
	default:
		host, ok := room.Peer(hostID)
		if !ok {
			return
		}
		if !host.Send(fwd) {
			s.log.Printf("room %s: dropped frame for host (slow consumer)", room.Code)
		}
	}
}

// leave tears down membership after the reader loop ends. A departing host
// closes the whole room; remaining members get ROOM_CLOSED and are expected
// to disconnect themselves.
func (s *Server) leave(room *Room, self *Peer) {
	if wasHost := room.Remove(self.ID); wasHost {
		b, _ := json.Marshal(protocol.RoomClosedMsg{Type: protocol.TypeRoomClosed, Reason: "host left"})
		room.Broadcast(self.ID, b)
		s.reg.Drop(room.Code)
		s.log.Printf("room %s closed (host left)", room.Code)
		return
	}
	b, _ := json.Marshal(protocol.PeerEventMsg{Type: protocol.TypePeerLeft, PeerID: self.ID, Name: self.Name})
	room.Broadcast(self.ID, b)
	s.log.Printf("peer %s left room %s", self.ID, room.Code)
}

func errFrame(code, msg string) []byte {
	b, _ := json.Marshal(protocol.ErrorMsg{Type: protocol.TypeError, Code: code, Message: msg})
	return b
}

func joinErrCode(err error) string {
	switch err {
	case ErrRoomNotFound:
		return protocol.ErrRoomNotFound
	case ErrRoomClosed:
		return protocol.ErrRoomClosed
	default:
		return protocol.ErrInternal
	}
}

func writeNow(conn *websocket.Conn, b []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, b)
}
