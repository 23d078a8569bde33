// Package snapshot archives a full match state to disk. The file opens with
// a one-line JSON header (cheap to peek at with zstdcat) followed by the gob
// body. Archives are debug and replay artifacts; matches do not resume from
// them.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"hexreign.gg/internal/sim/model"
)

type Header struct {
	Version  int    `json:"version"`
	RoomCode string `json:"room_code"`
	Tick     uint64 `json:"tick"`
	ClockMs  int64  `json:"clock_ms"`
}

type ArchiveV1 struct {
	Header Header `json:"header"`

	// Digest is the state digest at archive time, re-checkable after load.
	Digest string         `json:"digest"`
	State  model.Snapshot `json:"state"`
}

func WriteArchive(path string, arc ArchiveV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(arc.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&arc); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func ReadArchive(path string) (ArchiveV1, error) {
	var arc ArchiveV1
	f, err := os.Open(path)
	if err != nil {
		return arc, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return arc, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Skip the header line; the gob body carries the header too.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&arc); err != nil {
		return arc, fmt.Errorf("gob decode: %w", err)
	}
	return arc, nil
}

// PeekHeader reads only the JSON header line.
func PeekHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReaderSize(dec, 64*1024).ReadBytes('\n')
	if err != nil {
		return h, err
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("header line: %w", err)
	}
	return h, nil
}
