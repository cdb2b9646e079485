package inventory

import "craftsim.dev/internal/sim/world/item"

// Container is the capability any slot-holding block satisfies. The
// manager moves stacks across it without knowing the concrete type.
type Container interface {
	Size() int
	Slot(i int) item.Stack
	SetSlot(i int, s item.Stack)
}

// insertIntoContainer runs stack-first-then-empty-fill over the
// container and returns the remainder.
func insertIntoContainer(c Container, s item.Stack, max int) item.Stack {
	n := c.Size()
	for i := 0; i < n && !s.IsEmpty(); i++ {
		cur := c.Slot(i)
		if cur.IsEmpty() || cur.Item != s.Item {
			continue
		}
		cur, s = item.Merge(cur, s, max)
		c.SetSlot(i, cur)
	}
	for i := 0; i < n && !s.IsEmpty(); i++ {
		if !c.Slot(i).IsEmpty() {
			continue
		}
		var cur item.Stack
		cur, s = item.Merge(item.Stack{}, s, max)
		c.SetSlot(i, cur)
	}
	return s
}

// TransferToContainer moves up to count units from a main slot into
// the container and reports how many units actually moved.
func (m *Manager) TransferToContainer(slot, count int, c Container) int {
	if c == nil || !m.inRange(slot) || count <= 0 || m.Main[slot].IsEmpty() {
		return 0
	}
	src := m.Main[slot]
	if count > src.Count {
		count = src.Count
	}
	rem := insertIntoContainer(c, src.WithCount(count), m.MaxStack(src.Item))
	moved := count - rem.Count
	m.Main[slot].Count -= moved
	m.Main[slot].Normalize()
	return moved
}

// QuickTransferToContainer shift-clicks the whole stack into the
// container, leaving any remainder in place.
func (m *Manager) QuickTransferToContainer(slot int, c Container) int {
	if !m.inRange(slot) {
		return 0
	}
	return m.TransferToContainer(slot, m.Main[slot].Count, c)
}

// TransferFromContainer pulls up to count units out of a container
// slot into the main inventory and reports how many moved.
func (m *Manager) TransferFromContainer(c Container, slot, count int) int {
	if c == nil || slot < 0 || slot >= c.Size() || count <= 0 {
		return 0
	}
	src := c.Slot(slot)
	if src.IsEmpty() {
		return 0
	}
	if count > src.Count {
		count = src.Count
	}
	rem := m.Add(src.WithCount(count))
	moved := count - rem
	src.Count -= moved
	src.Normalize()
	c.SetSlot(slot, src)
	return moved
}
