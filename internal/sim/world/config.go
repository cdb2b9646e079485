package world

import (
	"craftsim.dev/internal/sim/tuning"
)

const (
	MaxHealth = 20
	MaxHunger = 20

	// Dropped entities within this distance of a player get collected.
	pickupRange = 1.5
)

// Config is the per-world runtime configuration assembled by the host
// from flags and the tuning file.
type Config struct {
	ID   string
	Seed int64

	TickRateHz         int
	SnapshotEveryTicks int

	DefaultSpawn [3]float64
	Dimension    string
}

func DefaultConfig(t tuning.Tuning) Config {
	return Config{
		ID:                 "w-0",
		Seed:               1,
		TickRateHz:         t.TickRateHz,
		SnapshotEveryTicks: t.SnapshotEveryTicks,
		DefaultSpawn:       [3]float64{0, 64, 0},
		Dimension:          "overworld",
	}
}
