package inventory

import (
	"math/rand"
	"reflect"
	"testing"

	"craftsim.dev/internal/sim/catalogs"
	"craftsim.dev/internal/sim/world/item"
)

func newTestManager() *Manager {
	cats := catalogs.Default()
	policy := item.NewPolicy(cats.StackClasses.StackTo1, cats.StackClasses.StackTo16)
	return New(policy, cats.ArmorTiers, rand.New(rand.NewSource(7)))
}

func (m *Manager) assertStackBounds(t *testing.T) {
	t.Helper()
	check := func(where string, s item.Stack) {
		if s.Item == "" && s.Count != 0 {
			t.Fatalf("%s: count without item: %+v", where, s)
		}
		if s.Item != "" && (s.Count < 1 || s.Count > m.MaxStack(s.Item)) {
			t.Fatalf("%s: count %d outside [1,%d] for %s", where, s.Count, m.MaxStack(s.Item), s.Item)
		}
	}
	for _, s := range m.Main {
		check("main", s)
	}
	for _, s := range m.Armor {
		check("armor", s)
	}
	check("offhand", m.Offhand)
}

func TestAddStacksThenFillsHotbarFirst(t *testing.T) {
	m := newTestManager()
	if rem := m.Add(item.Stack{Item: "stick", Count: 70}); rem != 0 {
		t.Fatalf("remainder = %d, want 0", rem)
	}
	if m.Main[0].Count != 64 || m.Main[0].Item != "stick" {
		t.Fatalf("slot 0 = %+v, want 64 stick", m.Main[0])
	}
	if m.Main[1].Count != 6 || m.Main[1].Item != "stick" {
		t.Fatalf("slot 1 = %+v, want 6 stick", m.Main[1])
	}
	m.assertStackBounds(t)
}

func TestAddConservation(t *testing.T) {
	m := newTestManager()
	// Leave exactly one free slot and one partial stack.
	for i := 0; i < MainSize-1; i++ {
		m.Main[i] = item.Stack{Item: "cobblestone", Count: 64}
	}
	m.Main[3] = item.Stack{Item: "dirt", Count: 60}

	before := m.CountItem("dirt")
	rem := m.Add(item.Stack{Item: "dirt", Count: 80})
	placed := m.CountItem("dirt") - before
	if placed+rem != 80 {
		t.Fatalf("conservation broken: placed=%d rem=%d", placed, rem)
	}
	// Free capacity was 4 (top-up) + 64 (empty slot) = 68.
	if rem != 12 {
		t.Fatalf("remainder = %d, want 12", rem)
	}
	m.assertStackBounds(t)
}

func TestAddPreservesTags(t *testing.T) {
	m := newTestManager()
	src := item.Stack{Item: "iron_sword", Count: 1, Durability: 200, Enchantments: map[string]int{"sharpness": 3}}
	if rem := m.Add(src); rem != 0 {
		t.Fatalf("remainder = %d", rem)
	}
	got := m.Main[0]
	if got.Durability != 200 || got.EnchantLevel("sharpness") != 3 {
		t.Fatalf("tags lost: %+v", got)
	}
}

func TestMoveNoOps(t *testing.T) {
	m := newTestManager()
	m.Main[2] = item.Stack{Item: "coal", Count: 5}
	before := m.Main

	m.Move(2, 2)
	m.Move(0, 5) // empty source
	m.Move(-1, 2)
	m.Move(2, MainSize)
	if !reflect.DeepEqual(m.Main, before) {
		t.Fatalf("no-op moves mutated state")
	}
}

func TestMoveMergeLeavesRemainder(t *testing.T) {
	m := newTestManager()
	m.Main[0] = item.Stack{Item: "dirt", Count: 60}
	m.Main[1] = item.Stack{Item: "dirt", Count: 10}
	m.Move(1, 0)
	if m.Main[0].Count != 64 || m.Main[1].Count != 6 {
		t.Fatalf("merge = %d/%d, want 64/6", m.Main[0].Count, m.Main[1].Count)
	}
}

func TestMoveSwapsDifferentItems(t *testing.T) {
	m := newTestManager()
	m.Main[0] = item.Stack{Item: "dirt", Count: 3}
	m.Main[9] = item.Stack{Item: "coal", Count: 7}
	m.Move(0, 9)
	if m.Main[0].Item != "coal" || m.Main[9].Item != "dirt" {
		t.Fatalf("swap failed: %+v %+v", m.Main[0], m.Main[9])
	}
}

func TestSplitStack(t *testing.T) {
	m := newTestManager()
	m.Main[4] = item.Stack{Item: "dirt", Count: 7}
	taken := m.SplitStack(4)
	if taken.Count != 4 || m.Main[4].Count != 3 {
		t.Fatalf("split = %d/%d, want 4/3", taken.Count, m.Main[4].Count)
	}

	m.Main[5] = item.Stack{Item: "coal", Count: 1}
	if taken := m.SplitStack(5); !taken.IsEmpty() || m.Main[5].Count != 1 {
		t.Fatalf("split of single unit must be a no-op")
	}
}

func TestSplitStackToEmptyLandsInFreeSlot(t *testing.T) {
	m := newTestManager()
	m.Main[0] = item.Stack{Item: "dirt", Count: 64}
	if !m.SplitStackToEmpty(0) {
		t.Fatalf("split rejected with free slots available")
	}
	if m.Main[0].Count != 32 {
		t.Fatalf("source slot = %d, want 32", m.Main[0].Count)
	}
	// The half must occupy its own slot rather than merge back.
	if m.Main[1].Item != "dirt" || m.Main[1].Count != 32 {
		t.Fatalf("slot 1 = %+v, want 32 dirt", m.Main[1])
	}
	m.assertStackBounds(t)
}

func TestSplitStackToEmptyUndoneWhenFull(t *testing.T) {
	m := newTestManager()
	for i := 0; i < MainSize; i++ {
		m.Main[i] = item.Stack{Item: "cobblestone", Count: 64}
	}
	m.Main[7] = item.Stack{Item: "dirt", Count: 10}
	if m.SplitStackToEmpty(7) {
		t.Fatalf("split must fail with no free slot")
	}
	if m.Main[7].Count != 10 {
		t.Fatalf("source slot = %d, want 10 after undo", m.Main[7].Count)
	}
	m.assertStackBounds(t)
}

func TestShiftClickArmorFirst(t *testing.T) {
	m := newTestManager()
	m.Main[3] = item.Stack{Item: "iron_chestplate", Count: 1, Durability: 240}
	m.ShiftClick(3)
	if !m.Main[3].IsEmpty() {
		t.Fatalf("source slot not cleared")
	}
	if m.Armor[SlotChestplate].Item != "iron_chestplate" {
		t.Fatalf("chestplate not equipped: %+v", m.Armor)
	}
}

func TestShiftClickHotbarToStorage(t *testing.T) {
	m := newTestManager()
	m.Main[0] = item.Stack{Item: "dirt", Count: 40}
	m.Main[9] = item.Stack{Item: "dirt", Count: 30}
	m.ShiftClick(0)
	if m.Main[9].Count != 64 {
		t.Fatalf("storage stack = %d, want 64 (stack-first)", m.Main[9].Count)
	}
	if m.Main[10].Count != 6 {
		t.Fatalf("empty-fill remainder = %+v, want 6", m.Main[10])
	}
	if !m.Main[0].IsEmpty() {
		t.Fatalf("hotbar slot not cleared")
	}
}

func TestShiftClickLeavesRemainderWhenTargetFull(t *testing.T) {
	m := newTestManager()
	for i := StorageFrom; i < MainSize; i++ {
		m.Main[i] = item.Stack{Item: "cobblestone", Count: 64}
	}
	m.Main[0] = item.Stack{Item: "dirt", Count: 10}
	m.ShiftClick(0)
	if m.Main[0].Count != 10 {
		t.Fatalf("remainder lost: %+v", m.Main[0])
	}
}

func TestDrop(t *testing.T) {
	m := newTestManager()
	m.Main[1] = item.Stack{Item: "dirt", Count: 5}
	if got := m.Drop(1, false); got.Count != 1 || m.Main[1].Count != 4 {
		t.Fatalf("single drop = %+v left %+v", got, m.Main[1])
	}
	if got := m.Drop(1, true); got.Count != 4 || !m.Main[1].IsEmpty() {
		t.Fatalf("full drop = %+v left %+v", got, m.Main[1])
	}
	if got := m.Drop(1, true); !got.IsEmpty() {
		t.Fatalf("drop from empty slot must return nothing")
	}
}

func TestEquipArmorSwapsEquippedPiece(t *testing.T) {
	m := newTestManager()
	m.Armor[SlotHelmet] = item.Stack{Item: "leather_helmet", Count: 1, Durability: 55}
	m.Main[2] = item.Stack{Item: "iron_helmet", Count: 1, Durability: 165}
	m.EquipArmor(2)
	if m.Armor[SlotHelmet].Item != "iron_helmet" || m.Main[2].Item != "leather_helmet" {
		t.Fatalf("swap failed: armor=%+v main=%+v", m.Armor[SlotHelmet], m.Main[2])
	}

	m.Main[3] = item.Stack{Item: "stick", Count: 1}
	m.EquipArmor(3)
	if m.Main[3].Item != "stick" {
		t.Fatalf("non-armor equip must fail silently")
	}
}

func TestArmorDefenseAndToughness(t *testing.T) {
	m := newTestManager()
	m.Armor[SlotHelmet] = item.Stack{Item: "iron_helmet", Count: 1, Durability: 165}
	m.Armor[SlotChestplate] = item.Stack{Item: "diamond_chestplate", Count: 1, Durability: 528}
	if got := m.ArmorDefense(); got != 2+8 {
		t.Fatalf("defense = %d, want 10", got)
	}
	if got := m.ArmorToughness(); got != 2 {
		t.Fatalf("toughness = %v, want 2", got)
	}
}

func TestDamageArmorRemovesBrokenPiece(t *testing.T) {
	m := newTestManager()
	m.Armor[SlotBoots] = item.Stack{Item: "leather_boots", Count: 1, Durability: 2}
	m.Armor[SlotHelmet] = item.Stack{Item: "iron_helmet", Count: 1, Durability: 165}
	m.DamageArmor(3)
	if !m.Armor[SlotBoots].IsEmpty() {
		t.Fatalf("broken boots not removed")
	}
	if m.Armor[SlotHelmet].Durability != 162 {
		t.Fatalf("helmet durability = %d, want 162", m.Armor[SlotHelmet].Durability)
	}
}

func TestDamageToolBreaks(t *testing.T) {
	m := newTestManager()
	m.Main[0] = item.Stack{Item: "iron_pickaxe", Count: 1, Durability: 2}
	if broke := m.DamageTool(0, 1); broke {
		t.Fatalf("tool broke early")
	}
	if broke := m.DamageTool(0, 1); !broke {
		t.Fatalf("tool must break at zero durability")
	}
	if !m.Main[0].IsEmpty() {
		t.Fatalf("broken tool not cleared")
	}
}

func TestDamageToolUnbreakingSkipRate(t *testing.T) {
	m := newTestManager()
	const trials = 4000
	applied := 0
	for i := 0; i < trials; i++ {
		m.Main[0] = item.Stack{
			Item: "iron_pickaxe", Count: 1, Durability: 1000,
			Enchantments: map[string]int{"unbreaking": 3},
		}
		m.DamageTool(0, 1)
		if m.Main[0].Durability != 1000 {
			applied++
		}
	}
	// Expect ~1/4 of hits to land; allow a wide band.
	if applied < trials/5 || applied > trials/3 {
		t.Fatalf("unbreaking III applied %d/%d hits, want about %d", applied, trials, trials/4)
	}
}

func TestConsumeItemAllOrNothing(t *testing.T) {
	m := newTestManager()
	m.Main[0] = item.Stack{Item: "coal", Count: 3}
	m.Main[12] = item.Stack{Item: "coal", Count: 4}
	if m.ConsumeItem("coal", 8) {
		t.Fatalf("consume beyond held count must fail")
	}
	if m.CountItem("coal") != 7 {
		t.Fatalf("failed consume mutated state")
	}
	if !m.ConsumeItem("coal", 5) {
		t.Fatalf("consume failed")
	}
	if m.CountItem("coal") != 2 {
		t.Fatalf("count = %d, want 2", m.CountItem("coal"))
	}
	m.assertStackBounds(t)
}

func TestClearCraftingGridReturnsOverflow(t *testing.T) {
	m := newTestManager()
	for i := range m.Main {
		m.Main[i] = item.Stack{Item: "cobblestone", Count: 64}
	}
	m.Grid[0] = item.Stack{Item: "dirt", Count: 5}
	overflow := m.ClearCraftingGrid()
	if len(overflow) != 1 || overflow[0].Count != 5 {
		t.Fatalf("overflow = %+v, want 5 dirt handed back", overflow)
	}
	if !m.Grid[0].IsEmpty() || !m.GridOutput.IsEmpty() {
		t.Fatalf("grid not cleared")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	m := newTestManager()
	m.Main[0] = item.Stack{Item: "stick", Count: 12}
	m.Main[35] = item.Stack{Item: "iron_sword", Count: 1, Durability: 100}
	m.Armor[SlotLeggings] = item.Stack{Item: "iron_leggings", Count: 1, Durability: 225}
	m.Offhand = item.Stack{Item: "shield", Count: 1, Durability: 336}
	m.SelectedHotbar = 4

	v := m.Snapshot()
	got := newTestManager()
	got.Restore(v)
	if !reflect.DeepEqual(got.Main[0], m.Main[0]) || got.Main[35].Item != "iron_sword" {
		t.Fatalf("main slots lost: %+v", got.Main[0])
	}
	if got.Armor[SlotLeggings].Item != "iron_leggings" || got.Offhand.Item != "shield" {
		t.Fatalf("armor/offhand lost")
	}
	if got.SelectedHotbar != 4 {
		t.Fatalf("selected hotbar = %d, want 4", got.SelectedHotbar)
	}
}

func TestRestoreToleratesMalformedSnapshot(t *testing.T) {
	m := newTestManager()
	m.Restore(SnapshotV1{
		Main:           []item.StackV1{{Item: "dirt", Count: 9000}, {Item: "", Count: 5}, {Item: "coal", Count: -2}},
		SelectedHotbar: 99,
	})
	if m.Main[0].Count != 64 {
		t.Fatalf("oversized count not clamped: %+v", m.Main[0])
	}
	if !m.Main[1].IsEmpty() || !m.Main[2].IsEmpty() {
		t.Fatalf("degenerate records must decode to empty slots")
	}
	if m.SelectedHotbar != 0 {
		t.Fatalf("bad hotbar index not defaulted")
	}
	m.assertStackBounds(t)
}
