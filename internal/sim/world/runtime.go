package world

import (
	"context"
	"time"
)

type JoinRequest struct {
	Name string
	Resp chan JoinResponse
}

type JoinResponse struct {
	PlayerID string
	Spawn    [3]float64
}

type stateReq struct {
	resp chan StateView
}

// Run drives the world at the configured tick rate until the context
// is canceled or Stop is called. All state mutation happens here.
func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingJoins []JoinRequest
	var pendingLeaves []string
	var pendingActions []ActionEnvelope

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.join:
			pendingJoins = append(pendingJoins, req)
		case id := <-w.leave:
			pendingLeaves = append(pendingLeaves, id)
		case env := <-w.inbox:
			pendingActions = append(pendingActions, env)
		case req := <-w.stateReq:
			req.resp <- w.buildStateView()
		case <-ticker.C:
			w.stepInternal(pendingJoins, pendingLeaves, pendingActions)
			pendingJoins = pendingJoins[:0]
			pendingLeaves = pendingLeaves[:0]
			pendingActions = pendingActions[:0]
		}
	}
}

func (w *World) Stop() { close(w.stop) }

// Join queues a join request; the response arrives once the next tick
// has processed it.
func (w *World) Join(name string) chan JoinResponse {
	resp := make(chan JoinResponse, 1)
	w.join <- JoinRequest{Name: name, Resp: resp}
	return resp
}

func (w *World) Leave(playerID string) { w.leave <- playerID }

func (w *World) Enqueue(env ActionEnvelope) {
	select {
	case w.inbox <- env:
	default:
		// Inbox full: drop the action rather than block the caller.
	}
}

// RequestState asks the world goroutine for an observer view of the
// current state.
func (w *World) RequestState() StateView {
	req := stateReq{resp: make(chan StateView, 1)}
	w.stateReq <- req
	return <-req.resp
}

// StepOnce advances the world a single tick with explicit inputs. Tests
// and replays drive the world through this instead of Run.
func (w *World) StepOnce(joins []JoinRequest, leaves []string, actions []ActionEnvelope) (tick uint64, digest string) {
	tick = w.tick.Load()
	w.stepInternal(joins, leaves, actions)
	return tick, w.stateDigest()
}

func (w *World) stepInternal(joins []JoinRequest, leaves []string, actions []ActionEnvelope) {
	stepStart := time.Now()
	nowTick := w.tick.Load()

	// Leaves and joins apply deterministically at the tick boundary.
	for _, id := range leaves {
		if _, ok := w.players[id]; ok {
			delete(w.players, id)
			w.writeAudit(AuditEntry{Type: "leave", PlayerID: id})
		}
	}
	for _, req := range joins {
		p := w.joinPlayer(req.Name)
		if req.Resp != nil {
			req.Resp <- JoinResponse{PlayerID: p.ID, Spawn: [3]float64{p.X, p.Y, p.Z}}
		}
	}

	// Actions in inbox order.
	for _, env := range actions {
		p := w.players[env.PlayerID]
		if p == nil {
			continue
		}
		res := w.applyAction(p, env.Act)
		if res != ResOK {
			w.writeAudit(AuditEntry{Type: "action_" + res, PlayerID: env.PlayerID, Cause: env.Act.Type})
		}
	}

	// Fixed system order: tile entities, then the death pipeline's
	// timers, then dropped-item collection.
	w.tiles.TickAll(1)

	for _, p := range w.sortedPlayers() {
		if p.InvulnTicks > 0 {
			p.InvulnTicks--
		}
	}
	w.deaths.TickDeathScreens()
	for _, id := range w.deaths.TickDroppedItems() {
		w.writeAudit(AuditEntry{Type: "item_despawn", EntityID: id})
	}
	w.collectDroppedItems()

	if w.snapshotSink != nil && nowTick != 0 && w.cfg.SnapshotEveryTicks > 0 &&
		nowTick%uint64(w.cfg.SnapshotEveryTicks) == 0 {
		select {
		case w.snapshotSink <- w.ExportSave(nowTick):
		default:
			// Drop the snapshot if the sink is backed up.
		}
	}

	stepMS := float64(time.Since(stepStart).Microseconds()) / 1000.0
	nextTick := w.tick.Add(1)

	w.metrics.Store(WorldMetrics{
		Tick:         nextTick,
		Players:      len(w.players),
		TileEntities: w.tiles.Len(),
		DroppedItems: w.deaths.DroppedItemCount(),
		StepMS:       stepMS,
		QueueDepths: QueueDepths{
			Inbox: len(w.inbox),
			Join:  len(w.join),
			Leave: len(w.leave),
		},
	})
}
