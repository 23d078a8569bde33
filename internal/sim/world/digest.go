package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"hexreign.gg/internal/sim/model"
)

// Digest hashes every gameplay-relevant field of a snapshot. Two snapshots
// that digest equally are the same match state; the encoding is fixed
// little-endian over the snapshot's stable slice orders, so the value
// survives JSON round-trips and process restarts. Hosts journal it per tick
// and replays compare against it.
func Digest(s *model.Snapshot) string {
	h := sha256.New()
	var tmp [8]byte

	digestHeader(h, &tmp, s)
	digestTiles(h, &tmp, s)
	digestSettlements(h, &tmp, s)
	digestPlayers(h, &tmp, s)
	digestBuffs(h, &tmp, s)

	return hex.EncodeToString(h.Sum(nil))
}

func digestHeader(h hashWriter, tmp *[8]byte, s *model.Snapshot) {
	h.Write([]byte(s.Phase))
	digestWriteI64(h, tmp, s.ClockMs)
	digestWriteI64(h, tmp, s.Seed)
	digestWriteI64(h, tmp, int64(s.MapRadius))
	h.Write([]byte(s.WinnerID))
	digestWriteU64(h, tmp, s.Counters.NextSettlement)
	digestWriteU64(h, tmp, s.Counters.NextBuff)
}

func digestTiles(h hashWriter, tmp *[8]byte, s *model.Snapshot) {
	digestWriteU64(h, tmp, uint64(len(s.Tiles)))
	for i := range s.Tiles {
		t := &s.Tiles[i]
		h.Write([]byte(t.ID))
		digestWriteI64(h, tmp, int64(t.Coord.Q))
		digestWriteI64(h, tmp, int64(t.Coord.R))
		h.Write([]byte(t.Terrain))
		h.Write([]byte(t.SettlementID))
		h.Write([]byte(t.ControllerID))
	}
}

func digestSettlements(h hashWriter, tmp *[8]byte, s *model.Snapshot) {
	digestWriteU64(h, tmp, uint64(len(s.Settlements)))
	for i := range s.Settlements {
		st := &s.Settlements[i]
		h.Write([]byte(st.ID))
		h.Write([]byte(st.OwnerID))
		h.Write([]byte(st.TileID))
		digestWriteI64(h, tmp, int64(st.Level))
		digestWriteI64(h, tmp, int64(st.Population))
		digestWriteI64(h, tmp, int64(st.PopulationCap))
		digestWriteF64(h, tmp, st.GrowthProgress)
		digestWriteI64(h, tmp, int64(st.Workers))
		digestWriteI64(h, tmp, int64(st.Worshippers))
		digestWriteI64(h, tmp, int64(st.Defenders))
	}
}

func digestPlayers(h hashWriter, tmp *[8]byte, s *model.Snapshot) {
	digestWriteU64(h, tmp, uint64(len(s.Players)))
	for i := range s.Players {
		p := &s.Players[i]
		h.Write([]byte(p.ID))
		h.Write([]byte(p.Name))
		h.Write([]byte{boolByte(p.NPC)})
		for _, kind := range model.ResourceKinds {
			digestWriteF64(h, tmp, p.Resources[kind])
		}
		digestWriteI64(h, tmp, int64(p.VictoryPoints))
		digestWriteF64(h, tmp, p.Belief)
		digestWriteF64(h, tmp, p.MaxBeliefEver)
		digestWriteI64(h, tmp, int64(p.Policy.WorkersPct))
		digestWriteI64(h, tmp, int64(p.Policy.WorshippersPct))
		digestWriteI64(h, tmp, int64(p.Policy.DefendersPct))
		h.Write([]byte(p.Policy.Stance))
	}
}

func digestBuffs(h hashWriter, tmp *[8]byte, s *model.Snapshot) {
	digestWriteU64(h, tmp, uint64(len(s.Buffs)))
	for i := range s.Buffs {
		b := &s.Buffs[i]
		h.Write([]byte(b.ID))
		h.Write([]byte(b.SettlementID))
		h.Write([]byte(b.OwnerID))
		h.Write([]byte(b.Power))
		digestWriteI64(h, tmp, b.ExpiresAtMs)
	}
}

type hashWriter interface {
	Write(p []byte) (n int, err error)
}

func digestWriteU64(h hashWriter, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteI64(h hashWriter, tmp *[8]byte, v int64) {
	digestWriteU64(h, tmp, uint64(v))
}

func digestWriteF64(h hashWriter, tmp *[8]byte, v float64) {
	digestWriteU64(h, tmp, math.Float64bits(v))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
