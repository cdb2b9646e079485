package world

import (
	"craftsim.dev/internal/protocol"
)

// StateView is the read-only observer projection of the world.
type StateView = protocol.StateMsg

func (w *World) buildStateView() StateView {
	msg := protocol.StateMsg{
		Type:  protocol.TypeState,
		Tick:  w.tick.Load(),
		Rules: w.rules.All(),
	}
	for _, p := range w.sortedPlayers() {
		pv := protocol.PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Pos:       [3]float64{p.X, p.Y, p.Z},
			Dimension: p.Dimension,
			Health:    p.Health,
			Hunger:    p.Hunger,
			Level:     p.Level,
			Alive:     p.Alive,
			Selected:  p.Inventory.SelectedHotbar,
		}
		if held := p.Inventory.Held(); !held.IsEmpty() {
			pv.Held = &protocol.ItemStack{Item: held.Item, Count: held.Count, Durability: held.Durability}
		}
		msg.Players = append(msg.Players, pv)
	}
	for _, pos := range w.tiles.Positions() {
		e := w.tiles.Get(pos)
		msg.Tiles = append(msg.Tiles, protocol.TileView{
			Kind: string(e.Kind()),
			Pos:  [3]int{pos.X, pos.Y, pos.Z},
		})
	}
	for _, r := range w.deaths.Snapshot().Dropped {
		msg.Dropped = append(msg.Dropped, protocol.DroppedView{
			ID:        r.ID,
			Item:      r.Stack.Item,
			Count:     r.Stack.Count,
			Pos:       r.Pos,
			Dimension: r.Dimension,
		})
	}
	if msg.Players == nil {
		msg.Players = []protocol.PlayerView{}
	}
	return msg
}
