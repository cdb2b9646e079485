// Package tile holds the position-keyed tile entities: stateful blocks
// (furnace, brewing stand, hopper, chest, sign, jukebox) ticked once
// per world tick by the registry.
package tile

import (
	"encoding/json"
	"sort"
)

// Pos is the packed composite key identifying a tile entity. Being a
// comparable value it is a map key with no per-lookup allocation.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Less orders positions lexicographically for deterministic iteration.
func (p Pos) Less(q Pos) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	if p.Y != q.Y {
		return p.Y < q.Y
	}
	return p.Z < q.Z
}

type Kind string

const (
	KindFurnace      Kind = "furnace"
	KindBrewingStand Kind = "brewing_stand"
	KindHopper       Kind = "hopper"
	KindChest        Kind = "chest"
	KindSign         Kind = "sign"
	KindJukebox      Kind = "jukebox"
)

// Entity is a stateful block. Implementations own their slot/state
// fields; Tick advances them by dt world ticks and never blocks.
type Entity interface {
	Pos() Pos
	Kind() Kind
	Tick(dt int)
	// State serializes the entity's private state as a plain
	// structural record embeddable in the world save.
	State() json.RawMessage
	// Restore loads state produced by State, tolerating malformed
	// input by keeping per-field defaults.
	Restore(state json.RawMessage)
}

// Record is one serialized registry entry, tagged by kind so an
// injected factory can rebuild the entity without the registry knowing
// concrete types.
type Record struct {
	Kind  Kind            `json:"kind"`
	X     int             `json:"x"`
	Y     int             `json:"y"`
	Z     int             `json:"z"`
	State json.RawMessage `json:"state,omitempty"`
}

// Factory builds an empty entity of the given kind at a position.
// Returning nil skips the record (unknown kind).
type Factory func(kind Kind, pos Pos) Entity

// Manager is the position -> entity registry.
type Manager struct {
	entities map[Pos]Entity
}

func NewManager() *Manager {
	return &Manager{entities: map[Pos]Entity{}}
}

func (m *Manager) Add(e Entity) {
	if e == nil {
		return
	}
	m.entities[e.Pos()] = e
}

func (m *Manager) Remove(p Pos) Entity {
	e := m.entities[p]
	delete(m.entities, p)
	return e
}

func (m *Manager) Get(p Pos) Entity { return m.entities[p] }
func (m *Manager) Has(p Pos) bool   { return m.entities[p] != nil }
func (m *Manager) Len() int         { return len(m.entities) }

func (m *Manager) sortedPositions() []Pos {
	out := make([]Pos, 0, len(m.entities))
	for p := range m.entities {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Positions lists every registered position in stable order.
func (m *Manager) Positions() []Pos { return m.sortedPositions() }

// TickAll ticks every registered entity exactly once, in stable
// position order. The world driver controls cadence; there is no
// internal scheduling.
func (m *Manager) TickAll(dt int) {
	for _, p := range m.sortedPositions() {
		if e := m.entities[p]; e != nil {
			e.Tick(dt)
		}
	}
}

// CountByKind tallies registered entities per kind.
func (m *Manager) CountByKind() map[Kind]int {
	out := map[Kind]int{}
	for _, e := range m.entities {
		out[e.Kind()]++
	}
	return out
}

// Snapshot serializes the whole registry in stable position order.
func (m *Manager) Snapshot() []Record {
	out := make([]Record, 0, len(m.entities))
	for _, p := range m.sortedPositions() {
		e := m.entities[p]
		out = append(out, Record{Kind: e.Kind(), X: p.X, Y: p.Y, Z: p.Z, State: e.State()})
	}
	return out
}

// Restore rebuilds the registry from records via the factory. Records
// the factory rejects are skipped; existing entries are replaced.
func (m *Manager) Restore(records []Record, f Factory) {
	m.entities = map[Pos]Entity{}
	if f == nil {
		return
	}
	for _, r := range records {
		e := f(r.Kind, Pos{X: r.X, Y: r.Y, Z: r.Z})
		if e == nil {
			continue
		}
		e.Restore(r.State)
		m.entities[e.Pos()] = e
	}
}
