package death

import (
	"math"
	"sort"

	"craftsim.dev/internal/sim/world/item"
)

// DroppedItem is one scattered stack waiting in the world to be picked
// up or to despawn. Ids come from the owning manager's counter, not a
// process-wide one, so multiple world instances stay independent and
// save/restore is deterministic.
type DroppedItem struct {
	ID         uint64
	Stack      item.Stack
	X, Y, Z    float64
	VX, VY, VZ float64
	Dimension  string

	DespawnTimer int
	PickupDelay  int
}

// spawnDropped creates one dropped entity with a random horizontal
// direction and a small upward kick.
func (m *Manager) spawnDropped(s item.Stack, x, y, z float64, dimension string) *DroppedItem {
	angle := m.rng.Float64() * 2 * math.Pi
	speed := 0.2 * (0.5 + m.rng.Float64()*0.5)

	m.nextItemID++
	d := &DroppedItem{
		ID:           m.nextItemID,
		Stack:        s.Clone(),
		X:            x,
		Y:            y,
		Z:            z,
		VX:           math.Cos(angle) * speed,
		VY:           0.3 + m.rng.Float64()*0.1,
		VZ:           math.Sin(angle) * speed,
		Dimension:    dimension,
		DespawnTimer: m.cfg.DespawnTicks,
		PickupDelay:  m.cfg.PickupDelayTicks,
	}
	m.dropped[d.ID] = d
	return d
}

// DropStack spawns a dropped entity outside the death pipeline, for
// player-initiated drops and scattered container contents.
func (m *Manager) DropStack(s item.Stack, x, y, z float64, dimension string) *DroppedItem {
	if s.IsEmpty() {
		return nil
	}
	return m.spawnDropped(s, x, y, z, dimension)
}

// TickDroppedItems counts every entity's pickup delay and despawn
// timer down (floored at 0), removes entities whose despawn timer
// expired and returns their ids in ascending order.
func (m *Manager) TickDroppedItems() []uint64 {
	var expired []uint64
	for id, d := range m.dropped {
		if d.PickupDelay > 0 {
			d.PickupDelay--
		}
		if d.DespawnTimer > 0 {
			d.DespawnTimer--
		}
		if d.DespawnTimer <= 0 {
			expired = append(expired, id)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i] < expired[j] })
	for _, id := range expired {
		delete(m.dropped, id)
	}
	return expired
}

// CanPickUp reports whether the entity exists and its pickup delay has
// run out.
func (m *Manager) CanPickUp(id uint64) bool {
	d := m.dropped[id]
	return d != nil && d.PickupDelay <= 0
}

// PickUp removes a collectible entity and returns its stack.
func (m *Manager) PickUp(id uint64) (item.Stack, bool) {
	if !m.CanPickUp(id) {
		return item.Stack{}, false
	}
	d := m.dropped[id]
	delete(m.dropped, id)
	return d.Stack, true
}

// DroppedInRange lists live entities within radius of a point in the
// same dimension, in id order.
func (m *Manager) DroppedInRange(x, y, z, radius float64, dimension string) []*DroppedItem {
	var out []*DroppedItem
	for _, d := range m.dropped {
		if d.Dimension != dimension {
			continue
		}
		dx, dy, dz := d.X-x, d.Y-y, d.Z-z
		if dx*dx+dy*dy+dz*dz <= radius*radius {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DroppedItemCount reports how many entities are live.
func (m *Manager) DroppedItemCount() int { return len(m.dropped) }

// Dropped returns a live entity for inspection, nil when absent.
func (m *Manager) Dropped(id uint64) *DroppedItem { return m.dropped[id] }
