package death

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"craftsim.dev/internal/sim/catalogs"
	"craftsim.dev/internal/sim/tuning"
	"craftsim.dev/internal/sim/world/inventory"
	"craftsim.dev/internal/sim/world/item"
)

func newTestDeathManager(hooks Hooks) *Manager {
	cfg := ConfigFromTuning(tuning.Default())
	cfg.DefaultSpawn = SpawnPoint{X: 0, Y: 64, Z: 0, Dimension: "overworld"}
	cats := catalogs.Default()
	return NewManager(cfg, NewRules(), cats.DeathMessages, hooks, rand.New(rand.NewSource(11)))
}

func newTestInventory() *inventory.Manager {
	cats := catalogs.Default()
	policy := item.NewPolicy(cats.StackClasses.StackTo1, cats.StackClasses.StackTo16)
	return inventory.New(policy, cats.ArmorTiers, rand.New(rand.NewSource(7)))
}

func testPlayer() PlayerState {
	return PlayerState{
		ID:        "p1",
		Name:      "Alex",
		Level:     5,
		TotalXP:   160,
		X:         10, Y: 70, Z: -4,
		Dimension: "overworld",
	}
}

func TestDeathDropsEveryOccupiedSlot(t *testing.T) {
	m := newTestDeathManager(Hooks{})
	inv := newTestInventory()

	// 1 hotbar slot, 3 storage slots, 2 armor pieces: 6 stacks total.
	inv.Main[2] = item.Stack{Item: "bread", Count: 7}
	inv.Main[9] = item.Stack{Item: "cobblestone", Count: 64}
	inv.Main[20] = item.Stack{Item: "stick", Count: 12}
	inv.Main[35] = item.Stack{Item: "iron_pickaxe", Count: 1, Durability: 120}
	inv.Armor[inventory.SlotHelmet] = item.Stack{Item: "iron_helmet", Count: 1, Durability: 80}
	inv.Armor[3] = item.Stack{Item: "iron_boots", Count: 1, Durability: 90}

	res := m.OnDeath(testPlayer(), inv, "attack", "")
	if len(res.DroppedItems) != 6 {
		t.Fatalf("dropped items = %d, want 6", len(res.DroppedItems))
	}
	if m.DroppedItemCount() != 6 {
		t.Fatalf("live dropped entities = %d, want 6", m.DroppedItemCount())
	}
	if res.DroppedXP != 35 {
		t.Fatalf("dropped xp = %d, want 35", res.DroppedXP)
	}
	if !res.ScreenShown {
		t.Fatalf("death screen not shown")
	}
}

func TestDeathDropIncludesOffhandNotCraftingGrid(t *testing.T) {
	m := newTestDeathManager(Hooks{})
	inv := newTestInventory()
	inv.Offhand = item.Stack{Item: "shield", Count: 1}
	inv.Grid[0] = item.Stack{Item: "oak_planks", Count: 2}

	res := m.OnDeath(testPlayer(), inv, "generic", "")
	if len(res.DroppedItems) != 1 {
		t.Fatalf("dropped items = %d, want 1 (offhand only)", len(res.DroppedItems))
	}
	d := m.Dropped(res.DroppedItems[0])
	if d == nil || d.Stack.Item != "shield" {
		t.Fatalf("dropped entity = %+v, want shield", d)
	}
}

func TestKeepInventoryDropsNothing(t *testing.T) {
	var itemHookCalls, xpHookCalls int
	m := newTestDeathManager(Hooks{
		OnItemsDropped: func(string, []*DroppedItem) { itemHookCalls++ },
		OnXPDropped:    func(string, int) { xpHookCalls++ },
	})
	m.Rules().Set(RuleKeepInventory, true)

	inv := newTestInventory()
	inv.Main[0] = item.Stack{Item: "diamond", Count: 3}
	inv.Armor[0] = item.Stack{Item: "iron_helmet", Count: 1}

	res := m.OnDeath(testPlayer(), inv, "lava", "")
	if len(res.DroppedItems) != 0 || res.DroppedXP != 0 {
		t.Fatalf("keepInventory death produced drops: %+v", res)
	}
	if m.DroppedItemCount() != 0 {
		t.Fatalf("live dropped entities = %d, want 0", m.DroppedItemCount())
	}
	if itemHookCalls != 0 || xpHookCalls != 0 {
		t.Fatalf("drop hooks fired: items=%d xp=%d", itemHookCalls, xpHookCalls)
	}
	if inv.Main[0].Item != "diamond" {
		t.Fatalf("inventory mutated on keepInventory death")
	}
}

func TestDroppedXPIsCapped(t *testing.T) {
	m := newTestDeathManager(Hooks{})
	p := testPlayer()
	p.Level = 30
	res := m.OnDeath(p, newTestInventory(), "void", "")
	if res.DroppedXP != 100 {
		t.Fatalf("dropped xp = %d, want cap 100", res.DroppedXP)
	}
}

func TestScatterVelocityBounds(t *testing.T) {
	m := newTestDeathManager(Hooks{})
	inv := newTestInventory()
	for i := 0; i < 9; i++ {
		inv.Main[i] = item.Stack{Item: "stick", Count: 1}
	}
	res := m.OnDeath(testPlayer(), inv, "generic", "")
	for _, id := range res.DroppedItems {
		d := m.Dropped(id)
		h := math.Hypot(d.VX, d.VZ)
		if h < 0.1-1e-9 || h > 0.2+1e-9 {
			t.Fatalf("horizontal speed %f outside [0.1,0.2]", h)
		}
		if d.VY < 0.3-1e-9 || d.VY > 0.4+1e-9 {
			t.Fatalf("vertical speed %f outside [0.3,0.4]", d.VY)
		}
		if d.DespawnTimer != 6000 || d.PickupDelay != 40 {
			t.Fatalf("timers = %d/%d, want 6000/40", d.DespawnTimer, d.PickupDelay)
		}
	}
}

func TestDeathMessagePrefersKillerTemplate(t *testing.T) {
	m := newTestDeathManager(Hooks{})

	with := m.buildMessage("attack", "Alex", "Zombie")
	if !strings.Contains(with, "Zombie") {
		t.Fatalf("killer death message %q does not name the killer", with)
	}
	without := m.buildMessage("attack", "Alex", "")
	if strings.Contains(without, "{killer}") || strings.Contains(without, "by ") {
		t.Fatalf("killer-less death message %q leaked killer text", without)
	}
	if !strings.Contains(without, "Alex") {
		t.Fatalf("death message %q does not name the player", without)
	}
}

func TestDeathMessageFallsBack(t *testing.T) {
	m := newTestDeathManager(Hooks{})
	if msg := m.buildMessage("meteor_strike", "Alex", ""); msg != "Alex died" {
		t.Fatalf("unknown cause message = %q, want generic", msg)
	}

	empty := NewManager(ConfigFromTuning(tuning.Default()), nil, catalogs.DeathMessageCatalog{}, Hooks{}, nil)
	if msg := empty.buildMessage("fall", "Alex", ""); msg != "Alex died" {
		t.Fatalf("empty catalog message = %q, want %q", msg, "Alex died")
	}
}

func TestShowDeathMessagesRuleGatesBroadcast(t *testing.T) {
	var broadcasts []string
	m := newTestDeathManager(Hooks{
		OnDeathMessageBroadcast: func(msg string) { broadcasts = append(broadcasts, msg) },
	})

	m.OnDeath(testPlayer(), nil, "fall", "")
	if len(broadcasts) != 1 {
		t.Fatalf("broadcasts = %d, want 1", len(broadcasts))
	}
	m.Rules().Set(RuleShowDeathMessages, false)
	m.OnDeath(testPlayer(), nil, "fall", "")
	if len(broadcasts) != 1 {
		t.Fatalf("broadcast fired with showDeathMessages=false")
	}
}

func TestCanRespawnBoundary(t *testing.T) {
	m := newTestDeathManager(Hooks{})
	p := testPlayer()
	m.OnDeath(p, nil, "drown", "")

	for tick := 0; tick < 20; tick++ {
		if m.CanRespawn(p.ID) {
			t.Fatalf("canRespawn true at timeSinceDeath=%d", tick)
		}
		m.TickDeathScreens()
	}
	if !m.CanRespawn(p.ID) {
		t.Fatalf("canRespawn false at timeSinceDeath=20")
	}
	if s := m.Screen(p.ID); s == nil || s.TimeSinceDeath != 20 || s.Score != p.TotalXP {
		t.Fatalf("screen state = %+v", s)
	}
}

func TestImmediateRespawnSkipsScreen(t *testing.T) {
	m := newTestDeathManager(Hooks{})
	m.Rules().Set(RuleImmediateRespawn, true)
	res := m.OnDeath(testPlayer(), nil, "fire", "")
	if res.ScreenShown {
		t.Fatalf("screen shown with immediateRespawn=true")
	}
	if m.Screen("p1") != nil {
		t.Fatalf("screen state present with immediateRespawn=true")
	}
}

type recordingSurvival struct {
	vitals, effects []string
	invuln          map[string]int
}

func (r *recordingSurvival) ResetVitals(id string)  { r.vitals = append(r.vitals, id) }
func (r *recordingSurvival) ClearEffects(id string) { r.effects = append(r.effects, id) }
func (r *recordingSurvival) SetInvulnerable(id string, ticks int) {
	if r.invuln == nil {
		r.invuln = map[string]int{}
	}
	r.invuln[id] = ticks
}

func TestRespawnResetsAndClearsScreen(t *testing.T) {
	var respawned []string
	m := newTestDeathManager(Hooks{
		OnRespawn: func(id string) { respawned = append(respawned, id) },
	})
	p := testPlayer()
	m.OnDeath(p, nil, "fall", "")

	sv := &recordingSurvival{}
	res := m.Respawn(p, sv)
	if !res.ClearInventory || !res.ClearXP {
		t.Fatalf("respawn result %+v, want inventory and xp cleared", res)
	}
	if res.InvulnTicks != 60 || sv.invuln["p1"] != 60 {
		t.Fatalf("invulnerability = %d/%d, want 60", res.InvulnTicks, sv.invuln["p1"])
	}
	if len(sv.vitals) != 1 || len(sv.effects) != 1 {
		t.Fatalf("survival resets = %d/%d, want 1/1", len(sv.vitals), len(sv.effects))
	}
	if m.Screen(p.ID) != nil {
		t.Fatalf("death screen survived respawn")
	}
	if len(respawned) != 1 || respawned[0] != "p1" {
		t.Fatalf("respawn hook calls = %v", respawned)
	}

	m.Rules().Set(RuleKeepInventory, true)
	res = m.Respawn(p, sv)
	if res.ClearInventory || res.ClearXP {
		t.Fatalf("keepInventory respawn cleared: %+v", res)
	}
}

func TestRespawnPointValidation(t *testing.T) {
	m := newTestDeathManager(Hooks{})
	def := m.cfg.DefaultSpawn

	p := testPlayer()
	if got := m.RespawnPoint(p); got != def {
		t.Fatalf("no bed: %+v, want default", got)
	}

	p.BedSpawn = &SpawnPoint{X: 100, Y: 65, Z: -30, Dimension: "overworld"}
	if got := m.RespawnPoint(p); got != *p.BedSpawn {
		t.Fatalf("valid bed: %+v, want bed point", got)
	}

	p.BedSpawn = &SpawnPoint{X: 100, Y: 500, Z: -30}
	if got := m.RespawnPoint(p); got != def {
		t.Fatalf("out-of-bounds bed: %+v, want default", got)
	}

	p.BedSpawn = &SpawnPoint{X: math.NaN(), Y: 65, Z: 0}
	if got := m.RespawnPoint(p); got != def {
		t.Fatalf("NaN X bed: %+v, want default", got)
	}

	p.BedSpawn = &SpawnPoint{X: 1, Y: math.NaN(), Z: 2}
	if got := m.RespawnPoint(p); got != def {
		t.Fatalf("NaN Y bed: %+v, want default", got)
	}

	p.BedSpawn = &SpawnPoint{X: 1, Y: math.Inf(1), Z: 2}
	if got := m.RespawnPoint(p); got != def {
		t.Fatalf("infinite Y bed: %+v, want default", got)
	}
}

func TestDroppedItemLifecycle(t *testing.T) {
	m := newTestDeathManager(Hooks{})
	inv := newTestInventory()
	inv.Main[0] = item.Stack{Item: "apple", Count: 4}
	res := m.OnDeath(testPlayer(), inv, "generic", "")
	id := res.DroppedItems[0]

	if m.CanPickUp(id) {
		t.Fatalf("pickup allowed during pickup delay")
	}
	for i := 0; i < 40; i++ {
		if expired := m.TickDroppedItems(); len(expired) != 0 {
			t.Fatalf("despawn during pickup delay: %v", expired)
		}
	}
	if !m.CanPickUp(id) {
		t.Fatalf("pickup still blocked after delay ran out")
	}

	s, ok := m.PickUp(id)
	if !ok || s.Item != "apple" || s.Count != 4 {
		t.Fatalf("pickup = %+v ok=%v", s, ok)
	}
	if _, ok := m.PickUp(id); ok {
		t.Fatalf("double pickup succeeded")
	}
}

func TestDroppedItemDespawns(t *testing.T) {
	m := newTestDeathManager(Hooks{})
	inv := newTestInventory()
	inv.Main[0] = item.Stack{Item: "rotten_flesh", Count: 1}
	res := m.OnDeath(testPlayer(), inv, "generic", "")
	id := res.DroppedItems[0]

	for i := 0; i < 5999; i++ {
		if expired := m.TickDroppedItems(); len(expired) != 0 {
			t.Fatalf("despawned early at tick %d", i+1)
		}
	}
	expired := m.TickDroppedItems()
	if len(expired) != 1 || expired[0] != id {
		t.Fatalf("expired = %v, want [%d]", expired, id)
	}
	if m.DroppedItemCount() != 0 {
		t.Fatalf("entity survived despawn")
	}
}

func TestDeathStateSnapshotRoundTrip(t *testing.T) {
	m := newTestDeathManager(Hooks{})
	m.Rules().Set(RuleShowDeathMessages, false)
	inv := newTestInventory()
	inv.Main[0] = item.Stack{Item: "bone", Count: 3}
	inv.Main[1] = item.Stack{Item: "string", Count: 2}
	m.OnDeath(testPlayer(), inv, "attack", "Skeleton")
	m.TickDeathScreens()
	m.TickDroppedItems()

	snap := m.Snapshot()
	restored := newTestDeathManager(Hooks{})
	restored.Restore(snap)

	if restored.Rules().Get(RuleShowDeathMessages) {
		t.Fatalf("rule lost in round trip")
	}
	if restored.DroppedItemCount() != 2 {
		t.Fatalf("dropped entities = %d, want 2", restored.DroppedItemCount())
	}
	for _, id := range snap.droppedIDs() {
		a, b := m.Dropped(id), restored.Dropped(id)
		if b == nil || a.Stack.Item != b.Stack.Item || a.Stack.Count != b.Stack.Count ||
			a.DespawnTimer != b.DespawnTimer || a.PickupDelay != b.PickupDelay {
			t.Fatalf("entity %d mismatch: %+v vs %+v", id, a, b)
		}
	}
	s := restored.Screen("p1")
	if s == nil || s.TimeSinceDeath != 1 || s.Score != 160 {
		t.Fatalf("restored screen = %+v", s)
	}

	// New ids must not collide with restored ones.
	inv2 := newTestInventory()
	inv2.Main[0] = item.Stack{Item: "flint", Count: 1}
	res := restored.OnDeath(testPlayer(), inv2, "generic", "")
	if res.DroppedItems[0] <= snap.NextItemID {
		t.Fatalf("id %d reused after restore", res.DroppedItems[0])
	}
}

func (v SnapshotV1) droppedIDs() []uint64 {
	out := make([]uint64, 0, len(v.Dropped))
	for _, d := range v.Dropped {
		out = append(out, d.ID)
	}
	return out
}
