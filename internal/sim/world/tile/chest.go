package tile

import (
	"encoding/json"

	"craftsim.dev/internal/sim/world/item"
)

const (
	ChestSize       = 27
	PairedChestSize = 54
)

// Chest is a plain slot container. It satisfies the generic container
// capability (Size/Slot/SetSlot) so player inventories and hoppers can
// move stacks across it without knowing the type.
type Chest struct {
	pos    Pos
	slots  []item.Stack
	policy item.Policy
}

func NewChest(pos Pos, policy item.Policy) *Chest {
	return &Chest{pos: pos, slots: make([]item.Stack, ChestSize), policy: policy}
}

func (c *Chest) Pos() Pos     { return c.pos }
func (c *Chest) Kind() Kind   { return KindChest }
func (c *Chest) Tick(dt int)  {}
func (c *Chest) Paired() bool { return len(c.slots) == PairedChestSize }

func (c *Chest) Size() int { return len(c.slots) }

func (c *Chest) Slot(i int) item.Stack {
	if i < 0 || i >= len(c.slots) {
		return item.Stack{}
	}
	return c.slots[i]
}

func (c *Chest) SetSlot(i int, s item.Stack) {
	if i < 0 || i >= len(c.slots) {
		return
	}
	s.Normalize()
	c.slots[i] = s
}

// PairWith grows a single chest into a double chest in place,
// preserving existing slot indices. Pairing twice is a no-op.
func (c *Chest) PairWith() {
	if c.Paired() {
		return
	}
	grown := make([]item.Stack, PairedChestSize)
	copy(grown, c.slots)
	c.slots = grown
}

// Add places a stack with the same stack-first-then-empty-fill rules
// as the player inventory and returns the count that did not fit.
func (c *Chest) Add(s item.Stack) int {
	if s.IsEmpty() {
		return 0
	}
	max := c.policy.MaxStack(s.Item)
	for i := range c.slots {
		if s.IsEmpty() {
			break
		}
		if c.slots[i].IsEmpty() || c.slots[i].Item != s.Item {
			continue
		}
		c.slots[i], s = item.Merge(c.slots[i], s, max)
	}
	for i := range c.slots {
		if s.IsEmpty() {
			break
		}
		if !c.slots[i].IsEmpty() {
			continue
		}
		c.slots[i], s = item.Merge(item.Stack{}, s, max)
	}
	return s.Count
}

// Remove takes up to count units out of a slot and returns them.
func (c *Chest) Remove(slot, count int) item.Stack {
	if slot < 0 || slot >= len(c.slots) || count <= 0 || c.slots[slot].IsEmpty() {
		return item.Stack{}
	}
	if count > c.slots[slot].Count {
		count = c.slots[slot].Count
	}
	out := c.slots[slot].WithCount(count)
	c.slots[slot].Count -= count
	c.slots[slot].Normalize()
	return out
}

// CountItem totals the units of an item across the chest.
func (c *Chest) CountItem(itemID string) int {
	total := 0
	for _, s := range c.slots {
		if !s.IsEmpty() && s.Item == itemID {
			total += s.Count
		}
	}
	return total
}

type chestStateV1 struct {
	Slots  []item.StackV1 `json:"slots"`
	Paired bool           `json:"paired,omitempty"`
}

func (c *Chest) State() json.RawMessage {
	raw, _ := json.Marshal(chestStateV1{
		Slots:  item.SliceToV1(c.slots),
		Paired: c.Paired(),
	})
	return raw
}

func (c *Chest) Restore(state json.RawMessage) {
	var v chestStateV1
	if len(state) == 0 || json.Unmarshal(state, &v) != nil {
		return
	}
	size := ChestSize
	if v.Paired || len(v.Slots) > ChestSize {
		size = PairedChestSize
	}
	c.slots = make([]item.Stack, size)
	for i := 0; i < size && i < len(v.Slots); i++ {
		c.slots[i] = item.FromV1(v.Slots[i], c.policy.MaxStack(v.Slots[i].Item))
	}
}
