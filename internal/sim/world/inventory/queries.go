package inventory

import "craftsim.dev/internal/sim/world/item"

// CountItem totals the units of an item across the main slots.
func (m *Manager) CountItem(itemID string) int {
	total := 0
	for _, s := range m.Main {
		if !s.IsEmpty() && s.Item == itemID {
			total += s.Count
		}
	}
	return total
}

func (m *Manager) HasItem(itemID string, n int) bool { return m.CountItem(itemID) >= n }

// ConsumeItem removes n units across the main slots. Nothing is
// removed when fewer than n units are held.
func (m *Manager) ConsumeItem(itemID string, n int) bool {
	if n <= 0 || !m.HasItem(itemID, n) {
		return false
	}
	for i := 0; i < MainSize && n > 0; i++ {
		s := &m.Main[i]
		if s.IsEmpty() || s.Item != itemID {
			continue
		}
		take := s.Count
		if take > n {
			take = n
		}
		s.Count -= take
		n -= take
		s.Normalize()
	}
	return true
}

// FindItem returns the first main slot holding the item, -1 when absent.
func (m *Manager) FindItem(itemID string) int {
	for i, s := range m.Main {
		if !s.IsEmpty() && s.Item == itemID {
			return i
		}
	}
	return -1
}

// FindEmptySlot returns the first empty main slot, -1 when full.
func (m *Manager) FindEmptySlot() int {
	for i, s := range m.Main {
		if s.IsEmpty() {
			return i
		}
	}
	return -1
}

func (m *Manager) IsFull() bool { return m.FindEmptySlot() == -1 }

// AllItems snapshots every non-empty main stack.
func (m *Manager) AllItems() []item.Stack {
	out := make([]item.Stack, 0, MainSize)
	for _, s := range m.Main {
		if !s.IsEmpty() {
			out = append(out, s.Clone())
		}
	}
	return out
}

// HotbarContents snapshots the nine hotbar slots, empties included.
func (m *Manager) HotbarContents() []item.Stack {
	out := make([]item.Stack, HotbarSize)
	for i := 0; i < HotbarSize; i++ {
		out[i] = m.Main[i].Clone()
	}
	return out
}

// ArmorContents snapshots the four armor slots.
func (m *Manager) ArmorContents() [ArmorSize]item.Stack {
	var out [ArmorSize]item.Stack
	for i, s := range m.Armor {
		out[i] = s.Clone()
	}
	return out
}
