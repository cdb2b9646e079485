package indexdb

import (
	"path/filepath"
	"testing"

	"craftsim.dev/internal/sim/catalogs"
	"craftsim.dev/internal/sim/tuning"
	"craftsim.dev/internal/sim/world"
)

func TestAuditAndSnapshotRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	_ = idx.WriteAudit(world.AuditEntry{Tick: 10, Type: "death", PlayerID: "p-0001", Cause: "lava", XP: 35})
	_ = idx.WriteAudit(world.AuditEntry{Tick: 10, Type: "item_drop", PlayerID: "p-0001", Item: "bread", Count: 5})
	_ = idx.WriteAudit(world.AuditEntry{Tick: 12, Type: "respawn", PlayerID: "p-0001"})
	idx.RecordSnapshot("/tmp/save-1200.zst", world.SaveV1{
		Header:  world.SaveHeader{Version: 1, WorldID: "w-0", Tick: 1200},
		Seed:    7,
		Players: []world.PlayerV1{{ID: "p-0001"}},
	})
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	idx, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx.Close()

	counts, err := idx.AuditCountByType()
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts["death"] != 1 || counts["item_drop"] != 1 || counts["respawn"] != 1 {
		t.Fatalf("audit counts = %v", counts)
	}

	row, ok, err := idx.LatestSnapshot()
	if err != nil || !ok {
		t.Fatalf("latest snapshot: ok=%v err=%v", ok, err)
	}
	if row.Tick != 1200 || row.Players != 1 || row.Path != "/tmp/save-1200.zst" {
		t.Fatalf("snapshot row = %+v", row)
	}
}

func TestUpsertCatalogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer idx.Close()

	if err := idx.UpsertCatalogs(catalogs.Default(), tuning.Default()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var n int
	if err := idx.db.QueryRow(`SELECT COUNT(*) FROM catalogs`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	// Six catalog tables plus the tuning row.
	if n != 7 {
		t.Fatalf("catalog rows = %d, want 7", n)
	}
}
