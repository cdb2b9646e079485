package world

import (
	"craftsim.dev/internal/sim/world/death"
	"craftsim.dev/internal/sim/world/inventory"
)

// Player is one connected (or lingering) player's authoritative state.
// All mutation happens on the world goroutine.
type Player struct {
	ID   string
	Name string

	X, Y, Z   float64
	Dimension string

	Health int
	Hunger int
	Alive  bool

	Level   int
	TotalXP int

	InvulnTicks int
	Effects     []string

	BedSpawn *death.SpawnPoint

	Inventory *inventory.Manager
}

func (p *Player) deathState() death.PlayerState {
	return death.PlayerState{
		ID:        p.ID,
		Name:      p.Name,
		Level:     p.Level,
		TotalXP:   p.TotalXP,
		X:         p.X,
		Y:         p.Y,
		Z:         p.Z,
		Dimension: p.Dimension,
		BedSpawn:  p.BedSpawn,
	}
}

// AddXP grants experience and recomputes the level on a flat
// 100-points-per-level curve.
func (p *Player) AddXP(points int) {
	if points <= 0 {
		return
	}
	p.TotalXP += points
	p.Level = p.TotalXP / 100
}

func (p *Player) resetVitals() {
	p.Health = MaxHealth
	p.Hunger = MaxHunger
	p.Alive = true
}
