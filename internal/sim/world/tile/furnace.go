package tile

import (
	"encoding/json"

	"craftsim.dev/internal/sim/catalogs"
	"craftsim.dev/internal/sim/world/item"
)

// Furnace is the smelt state machine: while fueled and holding a
// smeltable input it accumulates cook progress and converts one input
// unit into one output unit per completed cycle, banking the recipe's
// experience until collected.
type Furnace struct {
	pos Pos

	Input  item.Stack
	Fuel   item.Stack
	Output item.Stack

	BurnTimeRemaining int
	BurnTimeTotal     int
	CookProgress      int
	CookTimeTotal     int
	StoredExperience  float64

	recipes catalogs.SmeltingCatalog
	fuels   catalogs.FuelCatalog
	policy  item.Policy
}

func NewFurnace(pos Pos, cats *catalogs.Catalogs, policy item.Policy, cookTimeTicks int) *Furnace {
	return &Furnace{
		pos:           pos,
		CookTimeTotal: cookTimeTicks,
		recipes:       cats.Smelting,
		fuels:         cats.Fuels,
		policy:        policy,
	}
}

func (f *Furnace) Pos() Pos   { return f.pos }
func (f *Furnace) Kind() Kind { return KindFurnace }

func (f *Furnace) IsBurning() bool { return f.BurnTimeRemaining > 0 }

func (f *Furnace) recipe() (catalogs.SmeltRecipe, bool) {
	if f.Input.IsEmpty() {
		return catalogs.SmeltRecipe{}, false
	}
	r, ok := f.recipes.ByInput[f.Input.Item]
	return r, ok
}

// canCook reports whether the input matches a recipe and the output
// slot can take the recipe's item.
func (f *Furnace) canCook() bool {
	r, ok := f.recipe()
	if !ok {
		return false
	}
	if f.Output.IsEmpty() {
		return true
	}
	return f.Output.Item == r.Output && f.Output.Count < f.policy.MaxStack(r.Output)
}

// tryConsumeFuel looks up the fuel slot's burn value and, on a match,
// starts a new burn and consumes one fuel unit. A fuel whose table
// entry names a container item leaves that container behind only when
// the slot empties; a bucket consumed mid-stack is lost.
func (f *Furnace) tryConsumeFuel() bool {
	if f.Fuel.IsEmpty() {
		return false
	}
	def, ok := f.fuels.ByItem[f.Fuel.Item]
	if !ok {
		return false
	}
	f.BurnTimeRemaining = def.BurnTicks
	f.BurnTimeTotal = def.BurnTicks
	f.Fuel.Count--
	if f.Fuel.Count <= 0 {
		f.Fuel = item.Stack{}
		if def.ReturnsContainer != "" {
			f.Fuel = item.Stack{Item: def.ReturnsContainer, Count: 1}
		}
	}
	return true
}

func (f *Furnace) decayProgress(dt int) {
	f.CookProgress -= 2 * dt
	if f.CookProgress < 0 {
		f.CookProgress = 0
	}
}

func (f *Furnace) finishCook(r catalogs.SmeltRecipe) {
	if f.Output.IsEmpty() {
		f.Output = item.Stack{Item: r.Output, Count: 1}
	} else {
		f.Output.Count++
	}
	f.Input.Count--
	f.Input.Normalize()
	f.StoredExperience += r.Experience
	f.CookProgress = 0
}

// Tick advances the state machine. The burn countdown decrements
// before cook completion is evaluated; several invariants depend on
// that order.
func (f *Furnace) Tick(dt int) {
	if dt <= 0 {
		return
	}
	if f.BurnTimeRemaining > 0 {
		f.BurnTimeRemaining -= dt
		if f.BurnTimeRemaining < 0 {
			f.BurnTimeRemaining = 0
		}
	}

	if !f.canCook() {
		f.decayProgress(dt)
		return
	}
	if !f.IsBurning() && !f.tryConsumeFuel() {
		f.decayProgress(dt)
		return
	}

	f.CookProgress += dt
	if f.CookProgress >= f.CookTimeTotal {
		if r, ok := f.recipe(); ok {
			f.finishCook(r)
		}
	}
}

// CollectExperience drains and returns the banked smelting experience.
func (f *Furnace) CollectExperience() float64 {
	xp := f.StoredExperience
	f.StoredExperience = 0
	return xp
}

type furnaceStateV1 struct {
	Input             item.StackV1 `json:"input"`
	Fuel              item.StackV1 `json:"fuel"`
	Output            item.StackV1 `json:"output"`
	BurnTimeRemaining int          `json:"burn_time_remaining,omitempty"`
	BurnTimeTotal     int          `json:"burn_time_total,omitempty"`
	CookProgress      int          `json:"cook_progress,omitempty"`
	StoredExperience  float64      `json:"stored_xp,omitempty"`
}

func (f *Furnace) State() json.RawMessage {
	raw, _ := json.Marshal(furnaceStateV1{
		Input:             item.ToV1(f.Input),
		Fuel:              item.ToV1(f.Fuel),
		Output:            item.ToV1(f.Output),
		BurnTimeRemaining: f.BurnTimeRemaining,
		BurnTimeTotal:     f.BurnTimeTotal,
		CookProgress:      f.CookProgress,
		StoredExperience:  f.StoredExperience,
	})
	return raw
}

func (f *Furnace) Restore(state json.RawMessage) {
	var v furnaceStateV1
	if len(state) == 0 || json.Unmarshal(state, &v) != nil {
		return
	}
	f.Input = item.FromV1(v.Input, f.policy.MaxStack(v.Input.Item))
	f.Fuel = item.FromV1(v.Fuel, f.policy.MaxStack(v.Fuel.Item))
	f.Output = item.FromV1(v.Output, f.policy.MaxStack(v.Output.Item))
	f.BurnTimeTotal = clampMin(v.BurnTimeTotal, 0)
	f.BurnTimeRemaining = clampRange(v.BurnTimeRemaining, 0, f.BurnTimeTotal)
	f.CookProgress = clampRange(v.CookProgress, 0, f.CookTimeTotal)
	f.StoredExperience = v.StoredExperience
	if f.StoredExperience < 0 {
		f.StoredExperience = 0
	}
}

func clampMin(v, lo int) int {
	if v < lo {
		return lo
	}
	return v
}

func clampRange(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
