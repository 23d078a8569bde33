// Package relay pairs one game host with its clients in a code-addressed room
// and forwards opaque JSON payloads between them. It never parses game
// traffic; everything below the SEND/FORWARD envelope belongs to the host.
package relay

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
)

// Codes leave out 0/O/1/I so they survive being read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const codeLen = 6

const peerQueue = 256

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomClosed   = errors.New("room closed")
)

func newCode() (string, error) {
	b := make([]byte, codeLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b), nil
}

// Peer is one websocket member of a room. Outbound frames go through out; the
// connection's writer goroutine drains it.
type Peer struct {
	ID   string
	Name string
	out  chan []byte
}

// Send queues a frame for the peer. It reports false when the writer is
// saturated and the frame was dropped.
func (p *Peer) Send(b []byte) bool {
	select {
	case p.out <- b:
		return true
	default:
		return false
	}
}

// Room groups a host with its joined peers. The creating peer is the host;
// when it disconnects the room closes for everyone.
type Room struct {
	Code string

	mu     sync.Mutex
	hostID string
	peers  map[string]*Peer
	nextID int
	closed bool
}

func (r *Room) add(name string) *Peer {
	r.nextID++
	p := &Peer{
		ID:   fmt.Sprintf("peer_%d", r.nextID),
		Name: name,
		out:  make(chan []byte, peerQueue),
	}
	r.peers[p.ID] = p
	return p
}

// Join adds a member to a live room.
func (r *Room) Join(name string) (*Peer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRoomClosed
	}
	return r.add(name), nil
}

// HostID returns the room creator's peer id.
func (r *Room) HostID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hostID
}

// Peer looks up a member by id.
func (r *Room) Peer(id string) (*Peer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.peers[id]
	return p, ok
}

// Broadcast queues a frame for every member except exceptID. It returns the
// number of members whose queue was full.
func (r *Room) Broadcast(exceptID string, b []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for id, p := range r.peers {
		if id == exceptID {
			continue
		}
		if !p.Send(b) {
			dropped++
		}
	}
	return dropped
}

// Remove drops a member and reports whether it was the host. Removing the
// host marks the room closed; later joins fail with ErrRoomClosed.
func (r *Room) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.peers, id)
	if id != r.hostID {
		return false
	}
	r.closed = true
	return true
}

// Registry tracks live rooms by code.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Create opens a room with the caller as host.
func (g *Registry) Create(hostName string) (*Room, *Peer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := 0; i < 16; i++ {
		code, err := newCode()
		if err != nil {
			return nil, nil, err
		}
		if _, taken := g.rooms[code]; taken {
			continue
		}
		room := &Room{Code: code, peers: make(map[string]*Peer)}
		host := room.add(hostName)
		room.hostID = host.ID
		g.rooms[code] = room
		return room, host, nil
	}
	return nil, nil, errors.New("room code space exhausted")
}

// Join adds a peer to an existing room.
func (g *Registry) Join(code, name string) (*Room, *Peer, error) {
	g.mu.Lock()
	room, ok := g.rooms[code]
	g.mu.Unlock()
	if !ok {
		return nil, nil, ErrRoomNotFound
	}
	p, err := room.Join(name)
	if err != nil {
		return nil, nil, err
	}
	return room, p, nil
}

// Drop forgets a room. Members still holding the pointer see it closed.
func (g *Registry) Drop(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.rooms, code)
}

// Len reports the number of live rooms.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rooms)
}
