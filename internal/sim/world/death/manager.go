package death

import (
	"math"
	"math/rand"
	"strings"

	"craftsim.dev/internal/sim/catalogs"
	"craftsim.dev/internal/sim/tuning"
	"craftsim.dev/internal/sim/world/inventory"
	"craftsim.dev/internal/sim/world/item"
)

// PlayerState is the slice of player data the death pipeline reads.
// The world facade fills it from its player records.
type PlayerState struct {
	ID        string
	Name      string
	Level     int
	TotalXP   int
	X, Y, Z   float64
	Dimension string
	BedSpawn  *SpawnPoint
}

type SpawnPoint struct {
	X, Y, Z   float64
	Dimension string
}

// Survival is the vitals surface the respawn path resets. The world
// facade implements it over its player records.
type Survival interface {
	ResetVitals(playerID string)
	ClearEffects(playerID string)
	SetInvulnerable(playerID string, ticks int)
}

// Hooks let the host spawn visible entities and send messages; the
// manager itself never talks to the outside world.
type Hooks struct {
	OnItemsDropped          func(playerID string, items []*DroppedItem)
	OnXPDropped             func(playerID string, amount int)
	OnDeathMessageBroadcast func(message string)
	OnRespawn               func(playerID string)
}

// Screen is one player's death-screen state machine.
type Screen struct {
	Visible        bool
	Message        string
	TimeSinceDeath int
	Score          int
}

type Config struct {
	DespawnTicks      int
	PickupDelayTicks  int
	RespawnDelayTicks int
	InvulnTicks       int
	XPPerLevel        int
	XPCap             int

	WorldMinY    float64
	WorldMaxY    float64
	DefaultSpawn SpawnPoint
}

func ConfigFromTuning(t tuning.Tuning) Config {
	return Config{
		DespawnTicks:      t.ItemDespawnTicks,
		PickupDelayTicks:  t.PickupDelayTicks,
		RespawnDelayTicks: t.RespawnDelayTicks,
		InvulnTicks:       t.RespawnInvulnTicks,
		XPPerLevel:        t.DroppedXPPerLevel,
		XPCap:             t.DroppedXPCap,
		WorldMinY:         -64,
		WorldMaxY:         320,
	}
}

// Manager runs the death/respawn/item-drop pipeline: message
// generation, inventory scatter-drop, the dropped-item lifecycle, the
// per-player death screen and respawn resolution.
type Manager struct {
	cfg   Config
	rules *Rules
	msgs  catalogs.DeathMessageCatalog
	hooks Hooks
	rng   *rand.Rand

	screens    map[string]*Screen
	dropped    map[uint64]*DroppedItem
	nextItemID uint64
}

func NewManager(cfg Config, rules *Rules, msgs catalogs.DeathMessageCatalog, hooks Hooks, rng *rand.Rand) *Manager {
	if rules == nil {
		rules = NewRules()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Manager{
		cfg:     cfg,
		rules:   rules,
		msgs:    msgs,
		hooks:   hooks,
		rng:     rng,
		screens: map[string]*Screen{},
		dropped: map[uint64]*DroppedItem{},
	}
}

func (m *Manager) Rules() *Rules { return m.rules }

// Result reports what a death produced.
type Result struct {
	Message      string
	DroppedItems []uint64
	DroppedXP    int
	ScreenShown  bool
}

// OnDeath runs the whole death pipeline for one player: build the
// message, scatter the inventory, bank the death-screen state and fire
// the host hooks according to the game rules.
func (m *Manager) OnDeath(p PlayerState, inv *inventory.Manager, cause, killerName string) Result {
	res := Result{Message: m.buildMessage(cause, p.Name, killerName)}

	if !m.rules.Get(RuleKeepInventory) {
		var items []*DroppedItem
		for _, s := range deathDropStacks(inv) {
			d := m.spawnDropped(s, p.X, p.Y, p.Z, p.Dimension)
			items = append(items, d)
			res.DroppedItems = append(res.DroppedItems, d.ID)
		}
		res.DroppedXP = m.cfg.XPPerLevel * p.Level
		if res.DroppedXP > m.cfg.XPCap {
			res.DroppedXP = m.cfg.XPCap
		}
		if len(items) > 0 && m.hooks.OnItemsDropped != nil {
			m.hooks.OnItemsDropped(p.ID, items)
		}
		if res.DroppedXP > 0 && m.hooks.OnXPDropped != nil {
			m.hooks.OnXPDropped(p.ID, res.DroppedXP)
		}
	}

	if !m.rules.Get(RuleImmediateRespawn) {
		m.screens[p.ID] = &Screen{
			Visible: true,
			Message: res.Message,
			Score:   p.TotalXP,
		}
		res.ScreenShown = true
	} else {
		delete(m.screens, p.ID)
	}

	if m.rules.Get(RuleShowDeathMessages) && m.hooks.OnDeathMessageBroadcast != nil {
		m.hooks.OnDeathMessageBroadcast(res.Message)
	}
	return res
}

// deathDropStacks collects every non-empty slot across main, armor and
// offhand. The crafting grid is not part of the drop set.
func deathDropStacks(inv *inventory.Manager) []item.Stack {
	if inv == nil {
		return nil
	}
	var out []item.Stack
	for _, s := range inv.Main {
		if !s.IsEmpty() {
			out = append(out, s)
		}
	}
	for _, s := range inv.Armor {
		if !s.IsEmpty() {
			out = append(out, s)
		}
	}
	if !inv.Offhand.IsEmpty() {
		out = append(out, inv.Offhand)
	}
	return out
}

// Screen returns a player's death-screen state, nil while alive.
func (m *Manager) Screen(playerID string) *Screen { return m.screens[playerID] }

// TickDeathScreens advances every visible death screen by one tick.
func (m *Manager) TickDeathScreens() {
	for _, s := range m.screens {
		if s.Visible {
			s.TimeSinceDeath++
		}
	}
}

// CanRespawn is true once the respawn delay elapsed; the UI gates its
// respawn control on this.
func (m *Manager) CanRespawn(playerID string) bool {
	s := m.screens[playerID]
	return s != nil && s.Visible && s.TimeSinceDeath >= m.cfg.RespawnDelayTicks
}

// RespawnPoint resolves the player's bed point when it is basically
// valid (y inside world bounds, finite x/z), else the world default.
func (m *Manager) RespawnPoint(p PlayerState) SpawnPoint {
	b := p.BedSpawn
	if b == nil {
		return m.cfg.DefaultSpawn
	}
	if math.IsNaN(b.Y) || math.IsInf(b.Y, 0) || b.Y < m.cfg.WorldMinY || b.Y > m.cfg.WorldMaxY {
		return m.cfg.DefaultSpawn
	}
	if math.IsNaN(b.X) || math.IsInf(b.X, 0) || math.IsNaN(b.Z) || math.IsInf(b.Z, 0) {
		return m.cfg.DefaultSpawn
	}
	return *b
}

// RespawnResult tells the host what to apply alongside the vitals
// reset.
type RespawnResult struct {
	Point          SpawnPoint
	ClearInventory bool
	ClearXP        bool
	InvulnTicks    int
}

// Respawn resolves the spawn point, resets vitals and effects through
// the survival surface, grants spawn invulnerability and clears the
// death screen. Whether inventory and XP reset is gated by the
// keepInventory rule.
func (m *Manager) Respawn(p PlayerState, survival Survival) RespawnResult {
	if survival != nil {
		survival.ResetVitals(p.ID)
		survival.ClearEffects(p.ID)
		survival.SetInvulnerable(p.ID, m.cfg.InvulnTicks)
	}
	delete(m.screens, p.ID)

	keep := m.rules.Get(RuleKeepInventory)
	res := RespawnResult{
		Point:          m.RespawnPoint(p),
		ClearInventory: !keep,
		ClearXP:        !keep,
		InvulnTicks:    m.cfg.InvulnTicks,
	}
	if m.hooks.OnRespawn != nil {
		m.hooks.OnRespawn(p.ID)
	}
	return res
}

func (m *Manager) buildMessage(cause, playerName, killerName string) string {
	templates := m.msgs.ByCause[cause]
	if len(templates) == 0 {
		templates = m.msgs.ByCause["generic"]
	}
	if len(templates) == 0 {
		return playerName + " died"
	}
	tpl := pickTemplate(templates, killerName != "")
	msg := strings.ReplaceAll(tpl, "{player}", playerName)
	return strings.ReplaceAll(msg, "{killer}", killerName)
}

// pickTemplate prefers killer-placeholder templates when a killer is
// known, killer-less ones otherwise, falling back to the first entry.
func pickTemplate(templates []string, hasKiller bool) string {
	for _, t := range templates {
		if strings.Contains(t, "{killer}") == hasKiller {
			return t
		}
	}
	return templates[0]
}
