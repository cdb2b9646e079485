package tile

import (
	"encoding/json"

	"craftsim.dev/internal/sim/world/item"
)

// HopperSlots is the fixed slot count of a hopper.
const HopperSlots = 5

type Facing uint8

const (
	FacingDown Facing = iota
	FacingNorth
	FacingSouth
	FacingWest
	FacingEast
)

// Puller supplies items from whatever sits above the hopper. PullOne
// removes and returns one unit of an item the accept filter approves,
// so a pull never strands a unit the hopper cannot stow.
type Puller interface {
	PullOne(accept func(itemID string) bool) (item.Stack, bool)
}

// Pusher receives items on the hopper's facing side. PushOne returns
// the remainder, empty when the unit was taken.
type Pusher interface {
	PushOne(s item.Stack) item.Stack
}

// Hopper moves at most one item in and one item out per eligible tick,
// gated by a transfer cooldown. The pull/push sides are capability
// interfaces injected at construction; the hopper never references a
// concrete container type, and its serialized state carries no
// function values.
type Hopper struct {
	pos Pos

	Slots    [HopperSlots]item.Stack
	Facing   Facing
	Locked   bool
	Cooldown int

	puller Puller
	pusher Pusher

	policy        item.Policy
	cooldownTicks int
}

func NewHopper(pos Pos, facing Facing, policy item.Policy, cooldownTicks int) *Hopper {
	return &Hopper{pos: pos, Facing: facing, policy: policy, cooldownTicks: cooldownTicks}
}

// Connect wires the pull/push capabilities. Either side may be nil.
func (h *Hopper) Connect(puller Puller, pusher Pusher) {
	h.puller = puller
	h.pusher = pusher
}

func (h *Hopper) Pos() Pos   { return h.pos }
func (h *Hopper) Kind() Kind { return KindHopper }

// canStow reports whether one unit of the item fits in the hopper.
func (h *Hopper) canStow(itemID string) bool {
	max := h.policy.MaxStack(itemID)
	for _, s := range h.Slots {
		if s.IsEmpty() {
			return true
		}
		if s.Item == itemID && s.Count < max {
			return true
		}
	}
	return false
}

// stow inserts a stack with merge-first semantics, reporting whether
// everything fit.
func (h *Hopper) stow(s item.Stack) bool {
	max := h.policy.MaxStack(s.Item)
	for i := range h.Slots {
		if s.IsEmpty() {
			break
		}
		if h.Slots[i].IsEmpty() || h.Slots[i].Item != s.Item {
			continue
		}
		h.Slots[i], s = item.Merge(h.Slots[i], s, max)
	}
	for i := range h.Slots {
		if s.IsEmpty() {
			break
		}
		if !h.Slots[i].IsEmpty() {
			continue
		}
		h.Slots[i], s = item.Merge(item.Stack{}, s, max)
	}
	return s.IsEmpty()
}

func (h *Hopper) pullOnce() bool {
	if h.puller == nil {
		return false
	}
	s, ok := h.puller.PullOne(h.canStow)
	if !ok || s.IsEmpty() {
		return false
	}
	return h.stow(s)
}

func (h *Hopper) pushOnce() bool {
	if h.pusher == nil {
		return false
	}
	for i := range h.Slots {
		if h.Slots[i].IsEmpty() {
			continue
		}
		rem := h.pusher.PushOne(h.Slots[i].One())
		if !rem.IsEmpty() {
			return false
		}
		h.Slots[i].Count--
		h.Slots[i].Normalize()
		return true
	}
	return false
}

// Tick runs the cooldown-gated transfer loop: a locked hopper does
// nothing at all, a cooling hopper only counts down, and an eligible
// tick attempts exactly one pull then exactly one push regardless of
// dt. Any successful transfer restarts the cooldown.
func (h *Hopper) Tick(dt int) {
	if dt <= 0 || h.Locked {
		return
	}
	if h.Cooldown > 0 {
		h.Cooldown -= dt
		if h.Cooldown < 0 {
			h.Cooldown = 0
		}
		return
	}
	pulled := h.pullOnce()
	pushed := h.pushOnce()
	if pulled || pushed {
		h.Cooldown = h.cooldownTicks
	}
}

type hopperStateV1 struct {
	Slots    []item.StackV1 `json:"slots"`
	Facing   int            `json:"facing,omitempty"`
	Locked   bool           `json:"locked,omitempty"`
	Cooldown int            `json:"cooldown,omitempty"`
}

func (h *Hopper) State() json.RawMessage {
	raw, _ := json.Marshal(hopperStateV1{
		Slots:    item.SliceToV1(h.Slots[:]),
		Facing:   int(h.Facing),
		Locked:   h.Locked,
		Cooldown: h.Cooldown,
	})
	return raw
}

func (h *Hopper) Restore(state json.RawMessage) {
	var v hopperStateV1
	if len(state) == 0 || json.Unmarshal(state, &v) != nil {
		return
	}
	h.Slots = [HopperSlots]item.Stack{}
	for i := 0; i < HopperSlots && i < len(v.Slots); i++ {
		h.Slots[i] = item.FromV1(v.Slots[i], h.policy.MaxStack(v.Slots[i].Item))
	}
	if v.Facing >= int(FacingDown) && v.Facing <= int(FacingEast) {
		h.Facing = Facing(v.Facing)
	} else {
		h.Facing = FacingDown
	}
	h.Locked = v.Locked
	h.Cooldown = clampMin(v.Cooldown, 0)
}
