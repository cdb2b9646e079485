package snapshot

import (
	"path/filepath"
	"testing"

	"craftsim.dev/internal/sim/world"
	"craftsim.dev/internal/sim/world/inventory"
	"craftsim.dev/internal/sim/world/tile"
)

func TestWriteReadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := SavePath(dir, "w-0", 1200)

	save := world.SaveV1{
		Header:       world.SaveHeader{Version: 1, WorldID: "w-0", Tick: 1200},
		Seed:         7,
		TickRateHz:   20,
		DefaultSpawn: [3]float64{0, 64, 0},
		Dimension:    "overworld",
		Players: []world.PlayerV1{{
			ID:     "p-0001",
			Name:   "alex",
			Pos:    [3]float64{1, 64, 2},
			Health: 18,
			Hunger: 20,
			Alive:  true,
			Inventory: inventory.SnapshotV1{
				SelectedHotbar: 3,
			},
		}},
		Tiles: []tile.Record{{
			Kind: tile.KindFurnace, X: 4, Y: 64, Z: -2,
			State: []byte(`{"burn_time_remaining":100}`),
		}},
		Counters: world.CountersV1{NextPlayer: 1},
	}

	if err := WriteSave(path, save); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadSave(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Header != save.Header || got.Seed != 7 {
		t.Fatalf("header mismatch: %+v", got.Header)
	}
	if len(got.Players) != 1 || got.Players[0].ID != "p-0001" || got.Players[0].Inventory.SelectedHotbar != 3 {
		t.Fatalf("players mismatch: %+v", got.Players)
	}
	if len(got.Tiles) != 1 || got.Tiles[0].Kind != tile.KindFurnace || string(got.Tiles[0].State) != `{"burn_time_remaining":100}` {
		t.Fatalf("tiles mismatch: %+v", got.Tiles)
	}
}

func TestReadSaveMissingFile(t *testing.T) {
	if _, err := ReadSave(filepath.Join(t.TempDir(), "nope.zst")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
