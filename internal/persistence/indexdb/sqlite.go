// Package indexdb keeps a queryable sqlite index over journaled matches. The
// journal files stay the source of truth: index writes run on an async
// single-writer goroutine and are dropped, counted, when it falls behind.
package indexdb

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"hexreign.gg/internal/sim/model"
	"hexreign.gg/internal/sim/world"
)

type Index struct {
	db *sqlx.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropMatch  atomic.Uint64
	dropTick   atomic.Uint64
	dropResult atomic.Uint64
}

type reqKind int

const (
	reqMatch reqKind = iota + 1
	reqTick
	reqResult
)

type req struct {
	kind   reqKind
	match  MatchRow
	tick   TickRow
	result ResultRow
}

// MatchRow is one registered match.
type MatchRow struct {
	Code      string `db:"code" json:"code"`
	Seed      int64  `db:"seed" json:"seed"`
	TickMs    int64  `db:"tick_ms" json:"tick_ms"`
	Players   int    `db:"players" json:"players"`
	Journal   string `db:"journal_path" json:"journal_path"`
	StartedAt string `db:"started_at" json:"started_at"`
}

// TickRow is one journaled tick digest.
type TickRow struct {
	Code    string `db:"code" json:"code"`
	Tick    int64  `db:"tick" json:"tick"`
	ClockMs int64  `db:"clock_ms" json:"clock_ms"`
	Intents int    `db:"intents" json:"intents"`
	Digest  string `db:"digest" json:"digest"`
}

// ResultRow is the outcome of a finished match.
type ResultRow struct {
	Code       string `db:"code" json:"code"`
	WinnerID   string `db:"winner_id" json:"winner_id"`
	VictoryPts int    `db:"victory_points" json:"victory_points"`
	ClockMs    int64  `db:"clock_ms" json:"clock_ms"`
	RecordedAt string `db:"recorded_at" json:"recorded_at"`
}

func Open(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	x := &Index{
		db: db,
		ch: make(chan req, 4096),
	}
	x.wg.Add(1)
	go func() {
		defer x.wg.Done()
		x.loop()
	}()
	return x, nil
}

func initPragmas(db *sqlx.DB) error {
	// WAL suits the append-only tick stream; NORMAL is enough durability
	// for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func migrate(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS matches (
		code TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		tick_ms INTEGER NOT NULL,
		players INTEGER NOT NULL,
		journal_path TEXT NOT NULL,
		started_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ticks (
		code TEXT NOT NULL,
		tick INTEGER NOT NULL,
		clock_ms INTEGER NOT NULL,
		intents INTEGER NOT NULL,
		digest TEXT NOT NULL,
		PRIMARY KEY (code, tick)
	);

	CREATE TABLE IF NOT EXISTS results (
		code TEXT PRIMARY KEY,
		winner_id TEXT NOT NULL,
		victory_points INTEGER NOT NULL,
		clock_ms INTEGER NOT NULL,
		recorded_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ticks_code_clock ON ticks(code, clock_ms);
	`
	_, err := db.Exec(schema)
	return err
}

func (x *Index) Close() error {
	var err error
	x.once.Do(func() {
		x.closed.Store(true)
		close(x.ch)
		x.wg.Wait()
		err = x.db.Close()
	})
	return err
}

// RecordMatch registers a match when its journal opens.
func (x *Index) RecordMatch(code string, start world.StartRecord, journalPath string) {
	if x == nil || x.closed.Load() {
		return
	}
	r := MatchRow{
		Code:      code,
		Seed:      start.Seed,
		TickMs:    start.TickMs,
		Players:   len(start.Players),
		Journal:   journalPath,
		StartedAt: start.StartedAt.UTC().Format(time.RFC3339Nano),
	}
	select {
	case x.ch <- req{kind: reqMatch, match: r}:
	default:
		x.dropMatch.Add(1)
	}
}

// RecordTick indexes one tick digest.
func (x *Index) RecordTick(code string, rec world.TickRecord) {
	if x == nil || x.closed.Load() {
		return
	}
	r := TickRow{
		Code:    code,
		Tick:    int64(rec.Tick),
		ClockMs: rec.ClockMs,
		Intents: len(rec.Intents),
		Digest:  rec.Digest,
	}
	select {
	case x.ch <- req{kind: reqTick, tick: r}:
	default:
		x.dropTick.Add(1)
	}
}

// RecordResult stores the final outcome once a match reaches GAME_OVER.
func (x *Index) RecordResult(code string, s *model.Snapshot) {
	if x == nil || x.closed.Load() {
		return
	}
	vp := 0
	if w := s.Player(s.WinnerID); w != nil {
		vp = w.VictoryPoints
	}
	r := ResultRow{
		Code:       code,
		WinnerID:   s.WinnerID,
		VictoryPts: vp,
		ClockMs:    s.ClockMs,
		RecordedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	select {
	case x.ch <- req{kind: reqResult, result: r}:
	default:
		x.dropResult.Add(1)
	}
}

// Matches lists registered matches, oldest first.
func (x *Index) Matches() ([]MatchRow, error) {
	var rows []MatchRow
	err := x.db.Select(&rows, `SELECT code,seed,tick_ms,players,journal_path,started_at FROM matches ORDER BY started_at`)
	return rows, err
}

// Ticks lists a match's tick digests in order.
func (x *Index) Ticks(code string) ([]TickRow, error) {
	var rows []TickRow
	err := x.db.Select(&rows, `SELECT code,tick,clock_ms,intents,digest FROM ticks WHERE code=? ORDER BY tick`, code)
	return rows, err
}

// Result fetches a match outcome.
func (x *Index) Result(code string) (ResultRow, error) {
	var row ResultRow
	err := x.db.Get(&row, `SELECT code,winner_id,victory_points,clock_ms,recorded_at FROM results WHERE code=?`, code)
	return row, err
}

// Stats reports queue pressure for operational logging.
type Stats struct {
	QueueDepth    int
	QueueCapacity int

	DropMatchTotal  uint64
	DropTickTotal   uint64
	DropResultTotal uint64
}

func (x *Index) Stats() Stats {
	return Stats{
		QueueDepth:      len(x.ch),
		QueueCapacity:   cap(x.ch),
		DropMatchTotal:  x.dropMatch.Load(),
		DropTickTotal:   x.dropTick.Load(),
		DropResultTotal: x.dropResult.Load(),
	}
}

func (x *Index) loop() {
	insertMatch, _ := x.db.Preparex(`INSERT OR REPLACE INTO matches(code,seed,tick_ms,players,journal_path,started_at) VALUES(?,?,?,?,?,?)`)
	insertTick, _ := x.db.Preparex(`INSERT OR REPLACE INTO ticks(code,tick,clock_ms,intents,digest) VALUES(?,?,?,?,?)`)
	insertResult, _ := x.db.Preparex(`INSERT OR REPLACE INTO results(code,winner_id,victory_points,clock_ms,recorded_at) VALUES(?,?,?,?,?)`)
	defer func() {
		if insertMatch != nil {
			_ = insertMatch.Close()
		}
		if insertTick != nil {
			_ = insertTick.Close()
		}
		if insertResult != nil {
			_ = insertResult.Close()
		}
	}()

	var (
		tx            *sqlx.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 256
		commitMaxWait = time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := x.db.Beginx()
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range x.ch {
		begin()
		if tx == nil {
			continue
		}
		var err error
		switch r.kind {
		case reqMatch:
			m := r.match
			_, err = tx.Stmtx(insertMatch).Exec(m.Code, m.Seed, m.TickMs, m.Players, m.Journal, m.StartedAt)
		case reqTick:
			tk := r.tick
			_, err = tx.Stmtx(insertTick).Exec(tk.Code, tk.Tick, tk.ClockMs, tk.Intents, tk.Digest)
		case reqResult:
			res := r.result
			_, err = tx.Stmtx(insertResult).Exec(res.Code, res.WinnerID, res.VictoryPts, res.ClockMs, res.RecordedAt)
		}
		if err != nil {
			rollback()
			continue
		}
		opCount++
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	commit()
}
