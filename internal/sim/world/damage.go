package world

import (
	"craftsim.dev/internal/sim/world/death"
)

// applyDamage runs the armor reduction and, when health reaches zero,
// the full death pipeline.
func (w *World) applyDamage(p *Player, amount int, cause, killer string) {
	if amount <= 0 || !p.Alive || p.InvulnTicks > 0 {
		return
	}
	def := p.Inventory.ArmorDefense()
	if def > 20 {
		def = 20
	}
	reduced := amount - (amount*def)/25
	if reduced < 1 {
		reduced = 1
	}
	p.Inventory.DamageArmor(1)

	p.Health -= reduced
	if p.Health > 0 {
		return
	}
	p.Health = 0
	w.killPlayer(p, cause, killer)
}

func (w *World) killPlayer(p *Player, cause, killer string) {
	res := w.deaths.OnDeath(p.deathState(), p.Inventory, cause, killer)
	p.Alive = false

	if !w.rules.Get(death.RuleKeepInventory) {
		p.Inventory.Clear()
		p.Level = 0
		p.TotalXP = 0
	}
	w.writeAudit(AuditEntry{Type: "death", PlayerID: p.ID, Cause: cause, Message: res.Message, XP: res.DroppedXP})

	if w.rules.Get(death.RuleImmediateRespawn) {
		w.respawnPlayer(p)
	}
}

func (w *World) respawnPlayer(p *Player) string {
	if p.Alive {
		return ResRejected
	}
	if !w.rules.Get(death.RuleImmediateRespawn) && !w.deaths.CanRespawn(p.ID) {
		return ResRejected
	}
	res := w.deaths.Respawn(p.deathState(), survivalFacade{w})
	p.X, p.Y, p.Z = res.Point.X, res.Point.Y, res.Point.Z
	if res.Point.Dimension != "" {
		p.Dimension = res.Point.Dimension
	}
	if res.ClearInventory {
		p.Inventory.Clear()
	}
	if res.ClearXP {
		p.Level = 0
		p.TotalXP = 0
	}
	return ResOK
}
