// Package journal persists one match as a compressed JSONL stream: a start
// record on the first line, then one record per tick. The journal plus the
// engine's tuning is enough to replay the match and re-verify every digest.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"hexreign.gg/internal/sim/world"
)

// Writer appends zstd-compressed JSONL records for a single match. It
// implements world.TickSink.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Create opens a fresh journal file, truncating any previous one at path.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{
		f:   f,
		enc: enc,
		w:   bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

func (w *Writer) WriteStart(rec world.StartRecord) error { return w.writeLine(rec) }

func (w *Writer) WriteTick(rec world.TickRecord) error { return w.writeLine(rec) }

func (w *Writer) writeLine(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return errors.New("journal closed")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	// Flush per record so a crashed host leaves a readable prefix.
	return w.w.Flush()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var err error
	if w.w != nil {
		_ = w.w.Flush()
		w.w = nil
	}
	if w.enc != nil {
		err = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	return err
}

// Read loads a whole journal back: the start record and every tick record,
// in order. A version other than world.JournalVersion is an error.
func Read(path string) (world.StartRecord, []world.TickRecord, error) {
	var start world.StartRecord

	f, err := os.Open(path)
	if err != nil {
		return start, nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return start, nil, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return start, nil, err
		}
		return start, nil, errors.New("empty journal")
	}
	if err := json.Unmarshal(sc.Bytes(), &start); err != nil {
		return start, nil, fmt.Errorf("start record: %w", err)
	}
	if start.Version != world.JournalVersion {
		return start, nil, fmt.Errorf("journal version %q, want %q", start.Version, world.JournalVersion)
	}

	var recs []world.TickRecord
	for sc.Scan() {
		var rec world.TickRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return start, recs, fmt.Errorf("tick record %d: %w", len(recs)+1, err)
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return start, recs, err
	}
	return start, recs, nil
}
