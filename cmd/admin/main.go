package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"craftsim.dev/internal/persistence/snapshot"
	"craftsim.dev/internal/sim/world"
)

// admin is an operator CLI for a world's on-disk data: list what a
// world directory contains, print a save file, scan the audit log and
// query the sqlite read index. state/audits talk to a running server.
func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "save":
			saveCmd(os.Args[2:])
			return
		case "audit":
			auditLogCmd(os.Args[2:])
			return
		case "db":
			dbCmd(os.Args[2:])
			return
		case "state":
			stateCmd(os.Args[2:])
			return
		case "audits":
			auditsCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (optional)")
	_ = fs.Parse(args)

	base := *dataDir
	if *worldID != "" {
		base = filepath.Join(base, *worldID)
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	for _, e := range entries {
		fmt.Println(e.Name())
	}
}

func saveCmd(args []string) {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	savePath := fs.String("save", "", "save path (required)")
	full := fs.Bool("full", false, "dump the whole save as JSON")
	_ = fs.Parse(args)

	if strings.TrimSpace(*savePath) == "" {
		fmt.Fprintln(os.Stderr, "missing -save")
		os.Exit(2)
	}
	save, err := snapshot.ReadSave(*savePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read save:", err)
		os.Exit(1)
	}

	if *full {
		b, err := json.MarshalIndent(save, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "marshal:", err)
			os.Exit(1)
		}
		fmt.Println(string(b))
		return
	}

	fmt.Printf("save v%d world=%s tick=%d seed=%d\n", save.Header.Version, save.Header.WorldID, save.Header.Tick, save.Seed)
	for _, p := range save.Players {
		fmt.Printf("player %s name=%s pos=%v alive=%v health=%d level=%d\n", p.ID, p.Name, p.Pos, p.Alive, p.Health, p.Level)
	}
	byKind := map[string]int{}
	for _, t := range save.Tiles {
		byKind[string(t.Kind)]++
	}
	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("tiles %s=%d\n", k, byKind[k])
	}
	fmt.Printf("dropped=%d\n", len(save.Death.Dropped))
}

// auditLogCmd scans the compressed audit JSONL files the server wrote
// for one world and prints matching entries in tick order.
func auditLogCmd(args []string) {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (required)")
	typeFilter := fs.String("type", "", "entry type filter (optional)")
	playerFilter := fs.String("player", "", "player id filter (optional)")
	sinceTick := fs.Uint64("since_tick", 0, "print entries at or after this tick")
	toTick := fs.Uint64("to_tick", 0, "print entries at or before this tick (0 = no limit)")
	_ = fs.Parse(args)

	if strings.TrimSpace(*worldID) == "" {
		fmt.Fprintln(os.Stderr, "missing -world")
		os.Exit(2)
	}

	dir := filepath.Join(*dataDir, *worldID, "audit")
	ents, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read audit dir:", err)
		os.Exit(1)
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "audit-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := scanAuditFile(filepath.Join(dir, name), *typeFilter, *playerFilter, *sinceTick, *toTick); err != nil {
			fmt.Fprintln(os.Stderr, "scan:", err)
			os.Exit(1)
		}
	}
}

func scanAuditFile(path, typeFilter, playerFilter string, sinceTick, toTick uint64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	for sc.Scan() {
		line := sc.Bytes()
		var entry world.AuditEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
		}
		if entry.Tick < sinceTick {
			continue
		}
		if toTick != 0 && entry.Tick > toTick {
			continue
		}
		if typeFilter != "" && entry.Type != typeFilter {
			continue
		}
		if playerFilter != "" && entry.PlayerID != playerFilter {
			continue
		}
		fmt.Println(string(line))
	}
	return sc.Err()
}
