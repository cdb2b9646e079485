package world

// collectDroppedItems hands collectible dropped entities to nearby
// living players. Players are visited in id order so a contested
// pickup resolves the same way every run.
func (w *World) collectDroppedItems() {
	for _, p := range w.sortedPlayers() {
		if !p.Alive {
			continue
		}
		for _, d := range w.deaths.DroppedInRange(p.X, p.Y, p.Z, pickupRange, p.Dimension) {
			if !w.deaths.CanPickUp(d.ID) {
				continue
			}
			s, ok := w.deaths.PickUp(d.ID)
			if !ok {
				continue
			}
			if rem := p.Inventory.Add(s); rem > 0 {
				// Whatever did not fit goes straight back on the
				// ground, already collectible.
				if nd := w.deaths.DropStack(s.WithCount(rem), d.X, d.Y, d.Z, d.Dimension); nd != nil {
					nd.PickupDelay = 0
					nd.DespawnTimer = d.DespawnTimer
				}
			}
			w.writeAudit(AuditEntry{Type: "item_pickup", PlayerID: p.ID, Item: s.Item, Count: s.Count, EntityID: d.ID})
		}
	}
}
