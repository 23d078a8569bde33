// Command admin inspects a host's data directory without touching the host:
// the sqlite match index (matches, ticks, results) and snapshot archive
// headers. Read-only; WAL lets it run against a live host's index.
package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"hexreign.gg/internal/persistence/indexdb"
	"hexreign.gg/internal/persistence/snapshot"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "matches":
			matchesCmd(os.Args[2:])
			return
		case "ticks":
			ticksCmd(os.Args[2:])
			return
		case "result":
			resultCmd(os.Args[2:])
			return
		case "peek":
			peekCmd(os.Args[2:])
			return
		}
	}
	matchesCmd(os.Args[1:])
}

func matchesCmd(args []string) {
	fs := flag.NewFlagSet("matches", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "host data directory")
	_ = fs.Parse(args)

	idx := openIndex(*dataDir)
	defer idx.Close()

	rows, err := idx.Matches()
	if err != nil {
		fmt.Fprintln(os.Stderr, "query:", err)
		os.Exit(1)
	}
	for _, r := range rows {
		printJSON(r)
	}
}

func ticksCmd(args []string) {
	fs := flag.NewFlagSet("ticks", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "host data directory")
	code := fs.String("code", "", "room code (required)")
	limit := fs.Int("limit", 20, "print at most this many ticks, newest last")
	_ = fs.Parse(args)

	if *code == "" {
		fmt.Fprintln(os.Stderr, "missing -code")
		os.Exit(2)
	}

	idx := openIndex(*dataDir)
	defer idx.Close()

	rows, err := idx.Ticks(*code)
	if err != nil {
		fmt.Fprintln(os.Stderr, "query:", err)
		os.Exit(1)
	}
	if *limit > 0 && len(rows) > *limit {
		rows = rows[len(rows)-*limit:]
	}
	for _, r := range rows {
		printJSON(r)
	}
}

func resultCmd(args []string) {
	fs := flag.NewFlagSet("result", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "host data directory")
	code := fs.String("code", "", "room code (required)")
	_ = fs.Parse(args)

	if *code == "" {
		fmt.Fprintln(os.Stderr, "missing -code")
		os.Exit(2)
	}

	idx := openIndex(*dataDir)
	defer idx.Close()

	r, err := idx.Result(*code)
	if errors.Is(err, sql.ErrNoRows) {
		fmt.Fprintln(os.Stderr, "no result recorded; match still running or never finished")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "query:", err)
		os.Exit(1)
	}
	printJSON(r)
}

func peekCmd(args []string) {
	fs := flag.NewFlagSet("peek", flag.ExitOnError)
	archive := fs.String("archive", "", "path to .snap.zst (required)")
	_ = fs.Parse(args)

	if *archive == "" {
		fmt.Fprintln(os.Stderr, "missing -archive")
		os.Exit(2)
	}

	h, err := snapshot.PeekHeader(*archive)
	if err != nil {
		fmt.Fprintln(os.Stderr, "peek:", err)
		os.Exit(1)
	}
	printJSON(h)
}

func openIndex(dataDir string) *indexdb.Index {
	idx, err := indexdb.Open(filepath.Join(dataDir, "index.db"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "open index:", err)
		os.Exit(1)
	}
	return idx
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
