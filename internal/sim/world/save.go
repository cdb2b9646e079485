package world

import (
	"craftsim.dev/internal/sim/world/death"
	"craftsim.dev/internal/sim/world/inventory"
	"craftsim.dev/internal/sim/world/tile"
)

// SaveV1 is the full persisted form of one world. The persistence
// layer compresses it; the document itself is plain data.
type SaveV1 struct {
	Header SaveHeader `json:"header"`

	Seed               int64      `json:"seed"`
	TickRateHz         int        `json:"tick_rate_hz"`
	SnapshotEveryTicks int        `json:"snapshot_every_ticks,omitempty"`
	DefaultSpawn       [3]float64 `json:"default_spawn"`
	Dimension          string     `json:"dimension,omitempty"`

	Players []PlayerV1       `json:"players"`
	Tiles   []tile.Record    `json:"tiles,omitempty"`
	Death   death.SnapshotV1 `json:"death"`

	Counters CountersV1 `json:"counters"`
}

type SaveHeader struct {
	Version int    `json:"version"`
	WorldID string `json:"world_id"`
	Tick    uint64 `json:"tick"`
}

type CountersV1 struct {
	NextPlayer uint64 `json:"next_player"`
}

type PlayerV1 struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Pos       [3]float64 `json:"pos"`
	Dimension string     `json:"dimension,omitempty"`

	Health int  `json:"health"`
	Hunger int  `json:"hunger"`
	Alive  bool `json:"alive"`

	Level   int `json:"level"`
	TotalXP int `json:"total_xp"`

	InvulnTicks int      `json:"invuln_ticks,omitempty"`
	Effects     []string `json:"effects,omitempty"`

	BedSpawn *BedSpawnV1 `json:"bed_spawn,omitempty"`

	Inventory inventory.SnapshotV1 `json:"inventory"`
}

type BedSpawnV1 struct {
	Pos       [3]float64 `json:"pos"`
	Dimension string     `json:"dimension,omitempty"`
}

// ExportSave captures the entire world state at a tick boundary.
func (w *World) ExportSave(tick uint64) SaveV1 {
	save := SaveV1{
		Header:             SaveHeader{Version: 1, WorldID: w.cfg.ID, Tick: tick},
		Seed:               w.cfg.Seed,
		TickRateHz:         w.cfg.TickRateHz,
		SnapshotEveryTicks: w.cfg.SnapshotEveryTicks,
		DefaultSpawn:       w.cfg.DefaultSpawn,
		Dimension:          w.cfg.Dimension,
		Tiles:              w.tiles.Snapshot(),
		Death:              w.deaths.Snapshot(),
		Counters:           CountersV1{NextPlayer: w.nextPlayer.Load()},
	}
	for _, p := range w.sortedPlayers() {
		pv := PlayerV1{
			ID:          p.ID,
			Name:        p.Name,
			Pos:         [3]float64{p.X, p.Y, p.Z},
			Dimension:   p.Dimension,
			Health:      p.Health,
			Hunger:      p.Hunger,
			Alive:       p.Alive,
			Level:       p.Level,
			TotalXP:     p.TotalXP,
			InvulnTicks: p.InvulnTicks,
			Effects:     append([]string(nil), p.Effects...),
			Inventory:   p.Inventory.Snapshot(),
		}
		if p.BedSpawn != nil {
			pv.BedSpawn = &BedSpawnV1{
				Pos:       [3]float64{p.BedSpawn.X, p.BedSpawn.Y, p.BedSpawn.Z},
				Dimension: p.BedSpawn.Dimension,
			}
		}
		save.Players = append(save.Players, pv)
	}
	return save
}

// ImportSave replaces the world's mutable state with the saved one.
// The receiving world must be built with the same catalogs; records
// the factory does not recognize are skipped.
func (w *World) ImportSave(save SaveV1) {
	w.players = map[string]*Player{}
	for _, pv := range save.Players {
		p := &Player{
			ID:          pv.ID,
			Name:        pv.Name,
			X:           pv.Pos[0],
			Y:           pv.Pos[1],
			Z:           pv.Pos[2],
			Dimension:   pv.Dimension,
			Health:      clampInt(pv.Health, 0, MaxHealth),
			Hunger:      clampInt(pv.Hunger, 0, MaxHunger),
			Alive:       pv.Alive,
			Level:       pv.Level,
			TotalXP:     pv.TotalXP,
			InvulnTicks: pv.InvulnTicks,
			Effects:     append([]string(nil), pv.Effects...),
			Inventory:   inventory.New(w.policy, w.cats.ArmorTiers, w.rng),
		}
		p.Inventory.Restore(pv.Inventory)
		// Non-finite bed coordinates would poison the state digest,
		// so corrupt points are dropped on import.
		if b := pv.BedSpawn; b != nil && finite(b.Pos[0]) && finite(b.Pos[1]) && finite(b.Pos[2]) {
			p.BedSpawn = &death.SpawnPoint{
				X:         b.Pos[0],
				Y:         b.Pos[1],
				Z:         b.Pos[2],
				Dimension: b.Dimension,
			}
		}
		w.players[p.ID] = p
	}
	w.tiles.Restore(save.Tiles, w.factory)
	w.reconnectHoppers()
	w.deaths.Restore(save.Death)

	w.tick.Store(save.Header.Tick)
	w.nextPlayer.Store(save.Counters.NextPlayer)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
