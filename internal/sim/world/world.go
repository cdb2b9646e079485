package world

import (
	"fmt"
	"math/rand"
	"sort"
	"sync/atomic"

	"craftsim.dev/internal/sim/catalogs"
	"craftsim.dev/internal/sim/tuning"
	"craftsim.dev/internal/sim/world/death"
	"craftsim.dev/internal/sim/world/inventory"
	"craftsim.dev/internal/sim/world/item"
	"craftsim.dev/internal/sim/world/tile"
)

// World owns every piece of simulation state: players, tile entities,
// dropped items and game rules. A single goroutine (Run) mutates it;
// everything else talks to it through channels.
type World struct {
	cfg     Config
	tuning  tuning.Tuning
	cats    *catalogs.Catalogs
	policy  item.Policy
	rng     *rand.Rand
	factory tile.Factory

	players map[string]*Player
	tiles   *tile.Manager
	deaths  *death.Manager
	rules   *death.Rules

	tick       atomic.Uint64
	nextPlayer atomic.Uint64

	inbox    chan ActionEnvelope
	join     chan JoinRequest
	leave    chan string
	stateReq chan stateReq
	stop     chan struct{}

	snapshotSink chan SaveV1
	audit        AuditSink

	metrics atomic.Value // WorldMetrics
}

// AuditSink receives one entry per notable world event. The
// persistence layer implements it over a compressed JSONL file.
type AuditSink interface {
	WriteAudit(e AuditEntry) error
}

// AuditEntry is one line of the world's audit stream.
type AuditEntry struct {
	Tick     uint64 `json:"t"`
	Type     string `json:"type"`
	PlayerID string `json:"player_id,omitempty"`
	Cause    string `json:"cause,omitempty"`
	Message  string `json:"message,omitempty"`
	Item     string `json:"item,omitempty"`
	Count    int    `json:"count,omitempty"`
	XP       int    `json:"xp,omitempty"`
	EntityID uint64 `json:"entity_id,omitempty"`
}

type Options struct {
	Tuning   tuning.Tuning
	Catalogs *catalogs.Catalogs
	Audit    AuditSink

	// SnapshotSink receives the periodic save document; a nil sink
	// disables periodic snapshots.
	SnapshotSink chan SaveV1
}

func New(cfg Config, opts Options) *World {
	cats := opts.Catalogs
	if cats == nil {
		cats = catalogs.Default()
	}
	policy := item.NewPolicy(cats.StackClasses.StackTo1, cats.StackClasses.StackTo16)
	rng := rand.New(rand.NewSource(cfg.Seed))

	w := &World{
		cfg:     cfg,
		tuning:  opts.Tuning,
		cats:    cats,
		policy:  policy,
		rng:     rng,
		players: map[string]*Player{},
		tiles:   tile.NewManager(),
		rules:   death.NewRules(),

		inbox:    make(chan ActionEnvelope, 256),
		join:     make(chan JoinRequest, 16),
		leave:    make(chan string, 16),
		stateReq: make(chan stateReq, 4),
		stop:     make(chan struct{}),

		snapshotSink: opts.SnapshotSink,
		audit:        opts.Audit,
	}
	w.factory = w.defaultFactory()

	dcfg := death.ConfigFromTuning(opts.Tuning)
	dcfg.DefaultSpawn = death.SpawnPoint{
		X:         cfg.DefaultSpawn[0],
		Y:         cfg.DefaultSpawn[1],
		Z:         cfg.DefaultSpawn[2],
		Dimension: cfg.Dimension,
	}
	w.deaths = death.NewManager(dcfg, w.rules, cats.DeathMessages, death.Hooks{
		OnItemsDropped: func(playerID string, items []*death.DroppedItem) {
			for _, d := range items {
				w.writeAudit(AuditEntry{Type: "item_drop", PlayerID: playerID, Item: d.Stack.Item, Count: d.Stack.Count})
			}
		},
		OnXPDropped: func(playerID string, amount int) {
			w.writeAudit(AuditEntry{Type: "xp_drop", PlayerID: playerID, XP: amount})
		},
		OnDeathMessageBroadcast: func(msg string) {
			w.writeAudit(AuditEntry{Type: "death_message", Message: msg})
		},
		OnRespawn: func(playerID string) {
			w.writeAudit(AuditEntry{Type: "respawn", PlayerID: playerID})
		},
	}, rng)
	return w
}

func (w *World) ID() string { return w.cfg.ID }

func (w *World) Tick() uint64 { return w.tick.Load() }

func (w *World) Rules() *death.Rules { return w.rules }

func (w *World) writeAudit(e AuditEntry) {
	if w.audit == nil {
		return
	}
	e.Tick = w.tick.Load()
	_ = w.audit.WriteAudit(e)
}

func (w *World) newPlayerID() string {
	return fmt.Sprintf("p-%04d", w.nextPlayer.Add(1))
}

func (w *World) sortedPlayers() []*Player {
	out := make([]*Player, 0, len(w.players))
	for _, p := range w.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *World) joinPlayer(name string) *Player {
	p := &Player{
		ID:        w.newPlayerID(),
		Name:      name,
		X:         w.cfg.DefaultSpawn[0],
		Y:         w.cfg.DefaultSpawn[1],
		Z:         w.cfg.DefaultSpawn[2],
		Dimension: w.cfg.Dimension,
		Inventory: inventory.New(w.policy, w.cats.ArmorTiers, w.rng),
	}
	p.resetVitals()
	w.players[p.ID] = p
	w.writeAudit(AuditEntry{Type: "join", PlayerID: p.ID})
	return p
}

// survivalFacade adapts the player map to the respawn pipeline's
// vitals surface.
type survivalFacade struct{ w *World }

func (s survivalFacade) ResetVitals(playerID string) {
	if p := s.w.players[playerID]; p != nil {
		p.resetVitals()
	}
}

func (s survivalFacade) ClearEffects(playerID string) {
	if p := s.w.players[playerID]; p != nil {
		p.Effects = nil
	}
}

func (s survivalFacade) SetInvulnerable(playerID string, ticks int) {
	if p := s.w.players[playerID]; p != nil {
		p.InvulnTicks = ticks
	}
}
