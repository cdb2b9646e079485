package inventory

import "craftsim.dev/internal/sim/world/item"

// SnapshotV1 is the plain structural record the manager serializes to.
type SnapshotV1 struct {
	Main           []item.StackV1 `json:"main"`
	Armor          []item.StackV1 `json:"armor"`
	Offhand        item.StackV1   `json:"offhand"`
	Grid           []item.StackV1 `json:"grid"`
	GridOutput     item.StackV1   `json:"grid_output"`
	SelectedHotbar int            `json:"selected_hotbar"`
}

func (m *Manager) Snapshot() SnapshotV1 {
	return SnapshotV1{
		Main:           item.SliceToV1(m.Main[:]),
		Armor:          item.SliceToV1(m.Armor[:]),
		Offhand:        item.ToV1(m.Offhand),
		Grid:           item.SliceToV1(m.Grid[:]),
		GridOutput:     item.ToV1(m.GridOutput),
		SelectedHotbar: m.SelectedHotbar,
	}
}

// Restore loads a snapshot field by field: short or overlong arrays,
// bad counts and an out-of-range hotbar index all fall back to
// defaults instead of failing the load.
func (m *Manager) Restore(v SnapshotV1) {
	m.Main = [MainSize]item.Stack{}
	for i := 0; i < MainSize && i < len(v.Main); i++ {
		m.Main[i] = item.FromV1(v.Main[i], m.MaxStack(v.Main[i].Item))
	}
	m.Armor = [ArmorSize]item.Stack{}
	for i := 0; i < ArmorSize && i < len(v.Armor); i++ {
		m.Armor[i] = item.FromV1(v.Armor[i], m.MaxStack(v.Armor[i].Item))
	}
	m.Offhand = item.FromV1(v.Offhand, m.MaxStack(v.Offhand.Item))
	m.Grid = [GridSize]item.Stack{}
	for i := 0; i < GridSize && i < len(v.Grid); i++ {
		m.Grid[i] = item.FromV1(v.Grid[i], m.MaxStack(v.Grid[i].Item))
	}
	m.GridOutput = item.FromV1(v.GridOutput, m.MaxStack(v.GridOutput.Item))
	m.SelectedHotbar = 0
	if v.SelectedHotbar >= 0 && v.SelectedHotbar < HotbarSize {
		m.SelectedHotbar = v.SelectedHotbar
	}
}
