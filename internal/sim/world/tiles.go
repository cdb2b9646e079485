package world

import (
	"craftsim.dev/internal/sim/world/inventory"
	"craftsim.dev/internal/sim/world/item"
	"craftsim.dev/internal/sim/world/tile"
)

// defaultFactory builds tile entities with the world's catalogs and
// tuning wired in. It also backs snapshot restore.
func (w *World) defaultFactory() tile.Factory {
	return func(kind tile.Kind, pos tile.Pos) tile.Entity {
		switch kind {
		case tile.KindFurnace:
			return tile.NewFurnace(pos, w.cats, w.policy, w.tuning.CookTimeTicks)
		case tile.KindBrewingStand:
			return tile.NewBrewingStand(pos, w.cats, w.policy, w.tuning.BrewTimeTicks, w.tuning.BrewChargesPerFuel)
		case tile.KindHopper:
			return tile.NewHopper(pos, tile.FacingDown, w.policy, w.tuning.HopperCooldownTicks)
		case tile.KindChest:
			return tile.NewChest(pos, w.policy)
		case tile.KindSign:
			return tile.NewSign(pos)
		case tile.KindJukebox:
			return tile.NewJukebox(pos)
		}
		return nil
	}
}

// PlaceTile creates a tile entity at pos. Placing over an existing
// entity is rejected.
func (w *World) PlaceTile(kind tile.Kind, pos tile.Pos) tile.Entity {
	if w.tiles.Has(pos) {
		return nil
	}
	e := w.factory(kind, pos)
	if e == nil {
		return nil
	}
	w.tiles.Add(e)
	w.reconnectHoppers()
	return e
}

// BreakTile removes the entity at pos and scatters whatever it held as
// dropped items.
func (w *World) BreakTile(pos tile.Pos) bool {
	e := w.tiles.Remove(pos)
	if e == nil {
		return false
	}
	x, y, z := float64(pos.X)+0.5, float64(pos.Y)+0.5, float64(pos.Z)+0.5
	for _, s := range tileContents(e) {
		w.deaths.DropStack(s, x, y, z, w.cfg.Dimension)
	}
	w.reconnectHoppers()
	return true
}

// tileContents drains every stack a broken entity was holding.
func tileContents(e tile.Entity) []item.Stack {
	var out []item.Stack
	keep := func(s item.Stack) {
		if !s.IsEmpty() {
			out = append(out, s)
		}
	}
	switch t := e.(type) {
	case *tile.Furnace:
		keep(t.Input)
		keep(t.Fuel)
		keep(t.Output)
	case *tile.BrewingStand:
		for _, s := range t.Bottles {
			keep(s)
		}
		keep(t.Ingredient)
		keep(t.Fuel)
	case *tile.Hopper:
		for _, s := range t.Slots {
			keep(s)
		}
	case *tile.Chest:
		for i := 0; i < t.Size(); i++ {
			keep(t.Slot(i))
		}
	case *tile.Jukebox:
		if disc := t.EjectDisc(); disc != "" {
			keep(item.Stack{Item: disc, Count: 1})
		}
	}
	return out
}

func facingOffset(f tile.Facing) (dx, dy, dz int) {
	switch f {
	case tile.FacingNorth:
		return 0, 0, -1
	case tile.FacingSouth:
		return 0, 0, 1
	case tile.FacingWest:
		return -1, 0, 0
	case tile.FacingEast:
		return 1, 0, 0
	default:
		return 0, -1, 0
	}
}

// reconnectHoppers rebinds every hopper's pull and push ends to the
// containers currently adjacent to it. Runs whenever the tile layout
// changes.
func (w *World) reconnectHoppers() {
	for _, pos := range w.tiles.Positions() {
		h, ok := w.tiles.Get(pos).(*tile.Hopper)
		if !ok {
			continue
		}
		var puller tile.Puller
		if c := w.containerAt(tile.Pos{X: pos.X, Y: pos.Y + 1, Z: pos.Z}); c != nil {
			puller = containerPuller{c}
		}
		var pusher tile.Pusher
		dx, dy, dz := facingOffset(h.Facing)
		if c := w.containerAt(tile.Pos{X: pos.X + dx, Y: pos.Y + dy, Z: pos.Z + dz}); c != nil {
			pusher = containerPusher{c, w.policy}
		}
		h.Connect(puller, pusher)
	}
}

func (w *World) containerAt(pos tile.Pos) inventory.Container {
	if c, ok := w.tiles.Get(pos).(inventory.Container); ok {
		return c
	}
	return nil
}

// containerPuller exposes a slotted container as a hopper pull end:
// one unit from the first acceptable slot.
type containerPuller struct{ c inventory.Container }

func (p containerPuller) PullOne(accept func(itemID string) bool) (item.Stack, bool) {
	for i := 0; i < p.c.Size(); i++ {
		s := p.c.Slot(i)
		if s.IsEmpty() || (accept != nil && !accept(s.Item)) {
			continue
		}
		p.c.SetSlot(i, s.WithCount(s.Count-1))
		return s.One(), true
	}
	return item.Stack{}, false
}

// containerPusher exposes a slotted container as a hopper push end,
// returning whatever did not fit.
type containerPusher struct {
	c      inventory.Container
	policy item.Policy
}

func (p containerPusher) PushOne(s item.Stack) item.Stack {
	max := p.policy.MaxStack(s.Item)
	for i := 0; i < p.c.Size() && !s.IsEmpty(); i++ {
		cur := p.c.Slot(i)
		if cur.IsEmpty() || cur.Item == s.Item {
			merged, rest := item.Merge(cur, s, max)
			p.c.SetSlot(i, merged)
			s = rest
		}
	}
	return s
}
