package inventory

import (
	"testing"

	"craftsim.dev/internal/sim/world/item"
)

// fakeContainer is a minimal Container for transfer tests.
type fakeContainer struct {
	slots []item.Stack
}

func (c *fakeContainer) Size() int                   { return len(c.slots) }
func (c *fakeContainer) Slot(i int) item.Stack       { return c.slots[i] }
func (c *fakeContainer) SetSlot(i int, s item.Stack) { c.slots[i] = s }

func TestTransferToContainerStackFirst(t *testing.T) {
	m := newTestManager()
	m.Main[0] = item.Stack{Item: "dirt", Count: 20}
	c := &fakeContainer{slots: make([]item.Stack, 3)}
	c.slots[1] = item.Stack{Item: "dirt", Count: 60}

	moved := m.TransferToContainer(0, 20, c)
	if moved != 20 {
		t.Fatalf("moved = %d, want 20", moved)
	}
	if c.slots[1].Count != 64 {
		t.Fatalf("existing stack not topped up: %+v", c.slots[1])
	}
	if c.slots[0].Count != 16 {
		t.Fatalf("overflow not placed in empty slot: %+v", c.slots[0])
	}
	if !m.Main[0].IsEmpty() {
		t.Fatalf("source slot not drained")
	}
}

func TestQuickTransferLeavesRemainderWhenContainerFull(t *testing.T) {
	m := newTestManager()
	m.Main[5] = item.Stack{Item: "dirt", Count: 10}
	c := &fakeContainer{slots: []item.Stack{
		{Item: "coal", Count: 64},
		{Item: "dirt", Count: 64},
	}}
	if moved := m.QuickTransferToContainer(5, c); moved != 0 {
		t.Fatalf("moved = %d, want 0", moved)
	}
	if m.Main[5].Count != 10 {
		t.Fatalf("remainder lost: %+v", m.Main[5])
	}
}

func TestTransferFromContainer(t *testing.T) {
	m := newTestManager()
	c := &fakeContainer{slots: []item.Stack{{Item: "coal", Count: 30}}}
	if moved := m.TransferFromContainer(c, 0, 12); moved != 12 {
		t.Fatalf("moved = %d, want 12", moved)
	}
	if c.slots[0].Count != 18 {
		t.Fatalf("container slot = %+v, want 18", c.slots[0])
	}
	if m.CountItem("coal") != 12 {
		t.Fatalf("inventory coal = %d, want 12", m.CountItem("coal"))
	}
}

func TestTransferBadIndicesNoOp(t *testing.T) {
	m := newTestManager()
	c := &fakeContainer{slots: make([]item.Stack, 1)}
	if m.TransferToContainer(-1, 5, c) != 0 || m.TransferFromContainer(c, 5, 1) != 0 {
		t.Fatalf("bad indices must move nothing")
	}
}
