package world

import (
	"math"
	"strings"

	"craftsim.dev/internal/sim/world/death"
	"craftsim.dev/internal/sim/world/item"
	"craftsim.dev/internal/sim/world/tile"
)

// Action is one player intent, applied at a tick boundary in inbox
// order.
type Action struct {
	Type string `json:"type"`

	Slot  int  `json:"slot,omitempty"`
	To    int  `json:"to,omitempty"`
	Count int  `json:"count,omitempty"`
	Index int  `json:"index,omitempty"`
	All   bool `json:"all,omitempty"`

	Pos    [3]int `json:"pos,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Facing int    `json:"facing,omitempty"`

	Line int    `json:"line,omitempty"`
	Text string `json:"text,omitempty"`

	Amount int    `json:"amount,omitempty"`
	Cause  string `json:"cause,omitempty"`
	Killer string `json:"killer,omitempty"`

	Rule  string `json:"rule,omitempty"`
	Value bool   `json:"value,omitempty"`

	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`
	Z float64 `json:"z,omitempty"`
}

type ActionEnvelope struct {
	PlayerID string `json:"player_id"`
	Act      Action `json:"act"`
}

// Result codes recorded in the audit stream.
const (
	ResOK        = "OK"
	ResRejected  = "REJECTED"
	ResDead      = "DEAD"
	ResNoTile    = "NO_TILE"
	ResBadAction = "BAD_ACTION"
)

func (w *World) applyAction(p *Player, act Action) string {
	if !p.Alive {
		switch act.Type {
		case "respawn", "set_rule":
		default:
			return ResDead
		}
	}
	switch act.Type {
	case "move":
		p.X, p.Y, p.Z = act.X, act.Y, act.Z
		return ResOK
	case "select_hotbar":
		p.Inventory.SelectHotbar(act.Index)
		return ResOK
	case "move_item":
		p.Inventory.Move(act.Slot, act.To)
		return ResOK
	case "split_stack":
		if !p.Inventory.SplitStackToEmpty(act.Slot) {
			return ResRejected
		}
		return ResOK
	case "shift_click":
		p.Inventory.ShiftClick(act.Slot)
		return ResOK
	case "swap_hotbar":
		p.Inventory.SwapHotbar(act.Slot, act.Index)
		return ResOK
	case "equip_armor":
		p.Inventory.EquipArmor(act.Slot)
		return ResOK
	case "drop_item":
		s := p.Inventory.Drop(act.Slot, act.All)
		if s.IsEmpty() {
			return ResRejected
		}
		w.deaths.DropStack(s, p.X, p.Y, p.Z, p.Dimension)
		w.writeAudit(AuditEntry{Type: "item_drop", PlayerID: p.ID, Item: s.Item, Count: s.Count})
		return ResOK
	case "clear_crafting_grid":
		for _, s := range p.Inventory.ClearCraftingGrid() {
			w.deaths.DropStack(s, p.X, p.Y, p.Z, p.Dimension)
		}
		return ResOK
	case "place_tile":
		if e := w.PlaceTile(tile.Kind(act.Kind), posFrom(act.Pos)); e == nil {
			return ResRejected
		}
		return ResOK
	case "break_tile":
		if !w.BreakTile(posFrom(act.Pos)) {
			return ResNoTile
		}
		return ResOK
	case "stash":
		c := w.containerAt(posFrom(act.Pos))
		if c == nil {
			return ResNoTile
		}
		if p.Inventory.TransferToContainer(act.Slot, act.Count, c) == 0 {
			return ResRejected
		}
		return ResOK
	case "retrieve":
		c := w.containerAt(posFrom(act.Pos))
		if c == nil {
			return ResNoTile
		}
		if p.Inventory.TransferFromContainer(c, act.Slot, act.Count) == 0 {
			return ResRejected
		}
		return ResOK
	case "furnace_put":
		return w.furnacePut(p, act)
	case "furnace_take":
		return w.furnaceTake(p, act)
	case "brewing_put":
		return w.brewingPut(p, act)
	case "brewing_take":
		return w.brewingTake(p, act)
	case "set_sign_line":
		s, ok := w.tiles.Get(posFrom(act.Pos)).(*tile.Sign)
		if !ok {
			return ResNoTile
		}
		s.SetLine(act.Line, act.Text)
		return ResOK
	case "insert_disc":
		return w.insertDisc(p, act)
	case "eject_disc":
		j, ok := w.tiles.Get(posFrom(act.Pos)).(*tile.Jukebox)
		if !ok {
			return ResNoTile
		}
		if disc := j.EjectDisc(); disc != "" {
			w.giveOrDrop(p, item.Stack{Item: disc, Count: 1})
		}
		return ResOK
	case "set_spawn":
		if !finite(act.X) || !finite(act.Y) || !finite(act.Z) {
			return ResRejected
		}
		p.BedSpawn = &death.SpawnPoint{X: act.X, Y: act.Y, Z: act.Z, Dimension: p.Dimension}
		return ResOK
	case "hurt":
		w.applyDamage(p, act.Amount, act.Cause, act.Killer)
		return ResOK
	case "respawn":
		return w.respawnPlayer(p)
	case "set_rule":
		w.rules.Set(act.Rule, act.Value)
		return ResOK
	}
	return ResBadAction
}

func posFrom(v [3]int) tile.Pos { return tile.Pos{X: v[0], Y: v[1], Z: v[2]} }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func (w *World) furnacePut(p *Player, act Action) string {
	f, ok := w.tiles.Get(posFrom(act.Pos)).(*tile.Furnace)
	if !ok {
		return ResNoTile
	}
	held := p.Inventory.Held()
	if held.IsEmpty() {
		return ResRejected
	}
	target := &f.Input
	if act.Kind == "fuel" {
		target = &f.Fuel
	}
	if !target.IsEmpty() && target.Item != held.Item {
		return ResRejected
	}
	moved := p.Inventory.Drop(p.Inventory.SelectedHotbar, true)
	merged, rest := item.Merge(*target, moved, w.policy.MaxStack(moved.Item))
	*target = merged
	if !rest.IsEmpty() {
		p.Inventory.Add(rest)
	}
	return ResOK
}

func (w *World) furnaceTake(p *Player, act Action) string {
	f, ok := w.tiles.Get(posFrom(act.Pos)).(*tile.Furnace)
	if !ok {
		return ResNoTile
	}
	if f.Output.IsEmpty() {
		return ResRejected
	}
	out := f.Output
	f.Output = item.Stack{}
	w.giveOrDrop(p, out)
	if xp := int(f.CollectExperience()); xp > 0 {
		p.AddXP(xp)
	}
	return ResOK
}

func (w *World) brewingPut(p *Player, act Action) string {
	b, ok := w.tiles.Get(posFrom(act.Pos)).(*tile.BrewingStand)
	if !ok {
		return ResNoTile
	}
	held := p.Inventory.Held()
	if held.IsEmpty() {
		return ResRejected
	}
	one := p.Inventory.Drop(p.Inventory.SelectedHotbar, false)
	switch act.Kind {
	case "fuel":
		if !b.Fuel.IsEmpty() && b.Fuel.Item != one.Item {
			p.Inventory.Add(one)
			return ResRejected
		}
		merged, rest := item.Merge(b.Fuel, one, w.policy.MaxStack(one.Item))
		b.Fuel = merged
		if !rest.IsEmpty() {
			p.Inventory.Add(rest)
		}
	case "ingredient":
		if !b.Ingredient.IsEmpty() {
			p.Inventory.Add(one)
			return ResRejected
		}
		b.Ingredient = one
	default:
		if act.Slot < 0 || act.Slot >= len(b.Bottles) || !b.Bottles[act.Slot].IsEmpty() {
			p.Inventory.Add(one)
			return ResRejected
		}
		b.Bottles[act.Slot] = one
	}
	return ResOK
}

func (w *World) brewingTake(p *Player, act Action) string {
	b, ok := w.tiles.Get(posFrom(act.Pos)).(*tile.BrewingStand)
	if !ok {
		return ResNoTile
	}
	if act.Slot < 0 || act.Slot >= len(b.Bottles) || b.Bottles[act.Slot].IsEmpty() {
		return ResRejected
	}
	s := b.Bottles[act.Slot]
	b.Bottles[act.Slot] = item.Stack{}
	w.giveOrDrop(p, s)
	return ResOK
}

func (w *World) insertDisc(p *Player, act Action) string {
	j, ok := w.tiles.Get(posFrom(act.Pos)).(*tile.Jukebox)
	if !ok {
		return ResNoTile
	}
	held := p.Inventory.Held()
	if held.IsEmpty() || !strings.HasPrefix(held.Item, "music_disc") {
		return ResRejected
	}
	one := p.Inventory.Drop(p.Inventory.SelectedHotbar, false)
	if prev := j.InsertDisc(one.Item); prev != "" {
		w.giveOrDrop(p, item.Stack{Item: prev, Count: 1})
	}
	return ResOK
}

// giveOrDrop adds a stack to the player's inventory, spilling whatever
// does not fit onto the ground.
func (w *World) giveOrDrop(p *Player, s item.Stack) {
	if s.IsEmpty() {
		return
	}
	if rem := p.Inventory.Add(s); rem > 0 {
		w.deaths.DropStack(s.WithCount(rem), p.X, p.Y, p.Z, p.Dimension)
	}
}
