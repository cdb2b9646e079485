package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning carries the tick-counted constants of the simulation. All
// durations are in world ticks (20 ticks per second at the default
// rate). Zero-valued fields in a loaded file fall back to Default().
type Tuning struct {
	TickRateHz     int `yaml:"tick_rate_hz"`
	TickDurationMs int `yaml:"tick_duration_ms"`

	CookTimeTicks       int `yaml:"cook_time_ticks"`
	BrewTimeTicks       int `yaml:"brew_time_ticks"`
	BrewChargesPerFuel  int `yaml:"brew_charges_per_fuel"`
	HopperCooldownTicks int `yaml:"hopper_cooldown_ticks"`

	ItemDespawnTicks int `yaml:"item_despawn_ticks"`
	PickupDelayTicks int `yaml:"pickup_delay_ticks"`

	RespawnDelayTicks  int `yaml:"respawn_delay_ticks"`
	RespawnInvulnTicks int `yaml:"respawn_invuln_ticks"`
	DroppedXPPerLevel  int `yaml:"dropped_xp_per_level"`
	DroppedXPCap       int `yaml:"dropped_xp_cap"`

	SnapshotEveryTicks int `yaml:"snapshot_every_ticks"`
}

func Default() Tuning {
	return Tuning{
		TickRateHz:          20,
		TickDurationMs:      50,
		CookTimeTicks:       200,
		BrewTimeTicks:       400,
		BrewChargesPerFuel:  20,
		HopperCooldownTicks: 8,
		ItemDespawnTicks:    6000,
		PickupDelayTicks:    40,
		RespawnDelayTicks:   20,
		RespawnInvulnTicks:  60,
		DroppedXPPerLevel:   7,
		DroppedXPCap:        100,
		SnapshotEveryTicks:  1200,
	}
}

func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, err
	}
	var file Tuning
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	merge(&t, file)
	return t, nil
}

func merge(dst *Tuning, src Tuning) {
	if src.TickRateHz > 0 {
		dst.TickRateHz = src.TickRateHz
	}
	if src.TickDurationMs > 0 {
		dst.TickDurationMs = src.TickDurationMs
	}
	if src.CookTimeTicks > 0 {
		dst.CookTimeTicks = src.CookTimeTicks
	}
	if src.BrewTimeTicks > 0 {
		dst.BrewTimeTicks = src.BrewTimeTicks
	}
	if src.BrewChargesPerFuel > 0 {
		dst.BrewChargesPerFuel = src.BrewChargesPerFuel
	}
	if src.HopperCooldownTicks > 0 {
		dst.HopperCooldownTicks = src.HopperCooldownTicks
	}
	if src.ItemDespawnTicks > 0 {
		dst.ItemDespawnTicks = src.ItemDespawnTicks
	}
	if src.PickupDelayTicks > 0 {
		dst.PickupDelayTicks = src.PickupDelayTicks
	}
	if src.RespawnDelayTicks > 0 {
		dst.RespawnDelayTicks = src.RespawnDelayTicks
	}
	if src.RespawnInvulnTicks > 0 {
		dst.RespawnInvulnTicks = src.RespawnInvulnTicks
	}
	if src.DroppedXPPerLevel > 0 {
		dst.DroppedXPPerLevel = src.DroppedXPPerLevel
	}
	if src.DroppedXPCap > 0 {
		dst.DroppedXPCap = src.DroppedXPCap
	}
	if src.SnapshotEveryTicks > 0 {
		dst.SnapshotEveryTicks = src.SnapshotEveryTicks
	}
}
