package hexmap

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// DeriveSeed maps a room code to a map seed. Everyone holding the code can
// regenerate the match map without shipping tile data over the wire.
func DeriveSeed(roomCode string) int64 {
	sum := blake3.Sum256([]byte(roomCode))
	return int64(binary.LittleEndian.Uint64(sum[:8]))
}
