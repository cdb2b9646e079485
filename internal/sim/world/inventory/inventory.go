package inventory

import (
	"math/rand"

	"craftsim.dev/internal/sim/catalogs"
	"craftsim.dev/internal/sim/world/item"
)

// Slot layout constants. Main slots 0-8 are the hotbar, 9-35 storage.
const (
	MainSize    = 36
	HotbarSize  = 9
	StorageFrom = 9
	ArmorSize   = 4
	GridSize    = 4
)

// Armor slot indices.
const (
	SlotHelmet = iota
	SlotChestplate
	SlotLeggings
	SlotBoots
)

var armorSlotNames = [ArmorSize]string{"helmet", "chestplate", "leggings", "boots"}

// Manager owns one player's slots: 36 main, 4 armor, offhand, and the
// 2x2 crafting grid with its output. It is single-writer; the host
// gives each instance its own exclusion boundary.
type Manager struct {
	Main           [MainSize]item.Stack
	Armor          [ArmorSize]item.Stack
	Offhand        item.Stack
	Grid           [GridSize]item.Stack
	GridOutput     item.Stack
	SelectedHotbar int

	policy item.Policy
	tiers  catalogs.ArmorCatalog
	rng    *rand.Rand
}

func New(policy item.Policy, tiers catalogs.ArmorCatalog, rng *rand.Rand) *Manager {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Manager{policy: policy, tiers: tiers, rng: rng}
}

func (m *Manager) MaxStack(itemID string) int { return m.policy.MaxStack(itemID) }

func (m *Manager) inRange(slot int) bool { return slot >= 0 && slot < MainSize }

// Add places a stack into the main slots: first it tops up existing
// stacks of the same item, then fills empty slots hotbar-first. The
// return value is the count that did not fit. New stacks keep the
// source's durability and tags.
func (m *Manager) Add(s item.Stack) int {
	if s.IsEmpty() {
		return 0
	}
	max := m.MaxStack(s.Item)

	for i := 0; i < MainSize && !s.IsEmpty(); i++ {
		if m.Main[i].IsEmpty() || m.Main[i].Item != s.Item {
			continue
		}
		m.Main[i], s = item.Merge(m.Main[i], s, max)
	}
	for i := 0; i < MainSize && !s.IsEmpty(); i++ {
		if !m.Main[i].IsEmpty() {
			continue
		}
		m.Main[i], s = item.Merge(item.Stack{}, s, max)
	}
	return s.Count
}

// Move implements the click-move between two main slots: move into an
// empty destination, merge same items up to the max stack, swap
// different items. Out-of-range or empty-source calls are no-ops.
func (m *Manager) Move(from, to int) {
	if from == to || !m.inRange(from) || !m.inRange(to) {
		return
	}
	src := m.Main[from]
	if src.IsEmpty() {
		return
	}
	dst := m.Main[to]
	switch {
	case dst.IsEmpty():
		m.Main[to] = src
		m.Main[from] = item.Stack{}
	case dst.Item == src.Item:
		m.Main[to], m.Main[from] = item.Merge(dst, src, m.MaxStack(src.Item))
	default:
		m.Main[from], m.Main[to] = dst, src
	}
}

// SplitStack removes the larger half of the slot's stack and returns
// it. Stacks of one or fewer units are left untouched.
func (m *Manager) SplitStack(slot int) item.Stack {
	if !m.inRange(slot) {
		return item.Stack{}
	}
	taken, left := item.SplitHalf(m.Main[slot])
	m.Main[slot] = left
	return taken
}

// SplitStackToEmpty moves the larger half of the slot's stack into the
// first empty main slot. Without a free slot the split is undone and
// the call reports false.
func (m *Manager) SplitStackToEmpty(slot int) bool {
	taken := m.SplitStack(slot)
	if taken.IsEmpty() {
		return false
	}
	idx := m.FindEmptySlot()
	if idx == -1 {
		m.Main[slot], _ = item.Merge(m.Main[slot], taken, m.MaxStack(taken.Item))
		return false
	}
	m.Main[idx] = taken
	return true
}

// ShiftClick quick-moves a main slot's stack: armor goes to its empty
// armor slot, everything else crosses between hotbar and storage with
// stack-first-then-empty-fill semantics, leaving any remainder behind.
func (m *Manager) ShiftClick(slot int) {
	if !m.inRange(slot) || m.Main[slot].IsEmpty() {
		return
	}
	s := m.Main[slot]

	if as := armorSlotFor(s.Item); as >= 0 && m.Armor[as].IsEmpty() {
		m.Armor[as] = s
		m.Main[slot] = item.Stack{}
		return
	}

	lo, hi := StorageFrom, MainSize // hotbar -> storage
	if slot >= StorageFrom {
		lo, hi = 0, HotbarSize // storage -> hotbar
	}
	max := m.MaxStack(s.Item)
	for i := lo; i < hi && !s.IsEmpty(); i++ {
		if m.Main[i].IsEmpty() || m.Main[i].Item != s.Item {
			continue
		}
		m.Main[i], s = item.Merge(m.Main[i], s, max)
	}
	for i := lo; i < hi && !s.IsEmpty(); i++ {
		if !m.Main[i].IsEmpty() {
			continue
		}
		m.Main[i], s = item.Merge(item.Stack{}, s, max)
	}
	m.Main[slot] = s
}

// SwapHotbar exchanges a main slot with a hotbar slot.
func (m *Manager) SwapHotbar(slot, hotbarIndex int) {
	if !m.inRange(slot) || hotbarIndex < 0 || hotbarIndex >= HotbarSize || slot == hotbarIndex {
		return
	}
	m.Main[slot], m.Main[hotbarIndex] = m.Main[hotbarIndex], m.Main[slot]
}

// Drop removes the whole stack (dropAll) or a single unit from the
// slot and returns what was removed for the host to spawn.
func (m *Manager) Drop(slot int, dropAll bool) item.Stack {
	if !m.inRange(slot) || m.Main[slot].IsEmpty() {
		return item.Stack{}
	}
	if dropAll || m.Main[slot].Count == 1 {
		out := m.Main[slot]
		m.Main[slot] = item.Stack{}
		return out
	}
	out := m.Main[slot].One()
	m.Main[slot].Count--
	return out
}

// SelectHotbar sets the active hotbar slot, ignoring bad indices.
func (m *Manager) SelectHotbar(index int) {
	if index >= 0 && index < HotbarSize {
		m.SelectedHotbar = index
	}
}

// Held returns the stack under the selected hotbar slot.
func (m *Manager) Held() item.Stack { return m.Main[m.SelectedHotbar] }

// ClearCraftingGrid returns the grid's contents to the main inventory.
// Stacks that do not fit are handed back to the caller so the host can
// drop them into the world instead of silently destroying them.
func (m *Manager) ClearCraftingGrid() []item.Stack {
	var overflow []item.Stack
	for i := range m.Grid {
		s := m.Grid[i]
		m.Grid[i] = item.Stack{}
		if s.IsEmpty() {
			continue
		}
		if rem := m.Add(s); rem > 0 {
			overflow = append(overflow, s.WithCount(rem))
		}
	}
	m.GridOutput = item.Stack{}
	return overflow
}

// Clear empties every slot, including armor, offhand and the crafting
// grid.
func (m *Manager) Clear() {
	m.Main = [MainSize]item.Stack{}
	m.Armor = [ArmorSize]item.Stack{}
	m.Offhand = item.Stack{}
	m.Grid = [GridSize]item.Stack{}
	m.GridOutput = item.Stack{}
}
