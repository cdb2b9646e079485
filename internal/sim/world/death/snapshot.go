package death

import (
	"sort"

	"craftsim.dev/internal/sim/world/item"
)

type DroppedItemV1 struct {
	ID           uint64       `json:"id"`
	Stack        item.StackV1 `json:"stack"`
	Pos          [3]float64   `json:"pos"`
	Vel          [3]float64   `json:"vel"`
	Dimension    string       `json:"dimension,omitempty"`
	DespawnTimer int          `json:"despawn_timer"`
	PickupDelay  int          `json:"pickup_delay,omitempty"`
}

type ScreenV1 struct {
	Visible        bool   `json:"visible"`
	Message        string `json:"message,omitempty"`
	TimeSinceDeath int    `json:"time_since_death,omitempty"`
	Score          int    `json:"score,omitempty"`
}

type SnapshotV1 struct {
	Rules      map[string]bool     `json:"rules,omitempty"`
	Screens    map[string]ScreenV1 `json:"screens,omitempty"`
	Dropped    []DroppedItemV1     `json:"dropped,omitempty"`
	NextItemID uint64              `json:"next_item_id,omitempty"`
}

func (m *Manager) Snapshot() SnapshotV1 {
	v := SnapshotV1{
		Rules:      m.rules.All(),
		NextItemID: m.nextItemID,
	}
	if len(m.screens) > 0 {
		v.Screens = map[string]ScreenV1{}
		for id, s := range m.screens {
			v.Screens[id] = ScreenV1{
				Visible:        s.Visible,
				Message:        s.Message,
				TimeSinceDeath: s.TimeSinceDeath,
				Score:          s.Score,
			}
		}
	}
	for _, id := range sortedDroppedIDs(m.dropped) {
		d := m.dropped[id]
		v.Dropped = append(v.Dropped, DroppedItemV1{
			ID:           d.ID,
			Stack:        item.ToV1(d.Stack),
			Pos:          [3]float64{d.X, d.Y, d.Z},
			Vel:          [3]float64{d.VX, d.VY, d.VZ},
			Dimension:    d.Dimension,
			DespawnTimer: d.DespawnTimer,
			PickupDelay:  d.PickupDelay,
		})
	}
	return v
}

// Restore loads the transient death state, dropping malformed entries
// instead of failing.
func (m *Manager) Restore(v SnapshotV1) {
	m.rules.Restore(v.Rules)
	m.screens = map[string]*Screen{}
	for id, s := range v.Screens {
		if id == "" {
			continue
		}
		m.screens[id] = &Screen{
			Visible:        s.Visible,
			Message:        s.Message,
			TimeSinceDeath: clampMinInt(s.TimeSinceDeath, 0),
			Score:          clampMinInt(s.Score, 0),
		}
	}
	m.dropped = map[uint64]*DroppedItem{}
	m.nextItemID = v.NextItemID
	for _, r := range v.Dropped {
		s := item.FromV1(r.Stack, 0)
		if r.ID == 0 || s.IsEmpty() {
			continue
		}
		m.dropped[r.ID] = &DroppedItem{
			ID:           r.ID,
			Stack:        s,
			X:            r.Pos[0],
			Y:            r.Pos[1],
			Z:            r.Pos[2],
			VX:           r.Vel[0],
			VY:           r.Vel[1],
			VZ:           r.Vel[2],
			Dimension:    r.Dimension,
			DespawnTimer: clampMinInt(r.DespawnTimer, 0),
			PickupDelay:  clampMinInt(r.PickupDelay, 0),
		}
		if r.ID > m.nextItemID {
			m.nextItemID = r.ID
		}
	}
}

func sortedDroppedIDs(dropped map[uint64]*DroppedItem) []uint64 {
	out := make([]uint64, 0, len(dropped))
	for id := range dropped {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func clampMinInt(v, lo int) int {
	if v < lo {
		return lo
	}
	return v
}
