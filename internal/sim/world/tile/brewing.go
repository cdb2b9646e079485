package tile

import (
	"encoding/json"

	"craftsim.dev/internal/sim/catalogs"
	"craftsim.dev/internal/sim/world/item"
)

// FuelItem is the only item the brewing stand accepts as fuel.
const FuelItem = "blaze_powder"

// BrewingStand is the brew state machine. Fuel is charge-based: one
// blaze powder converts to a fixed number of charges, and starting a
// brew cycle costs exactly one charge. A completed cycle transforms
// every bottle matching the ingredient at once.
type BrewingStand struct {
	pos Pos

	Bottles    [3]item.Stack
	Ingredient item.Stack
	Fuel       item.Stack

	BrewTime    int
	FuelCharges int

	recipes        catalogs.BrewingCatalog
	brewTimeTotal  int
	chargesPerFuel int
	policy         item.Policy
}

func NewBrewingStand(pos Pos, cats *catalogs.Catalogs, policy item.Policy, brewTimeTicks, chargesPerFuel int) *BrewingStand {
	return &BrewingStand{
		pos:            pos,
		recipes:        cats.Brewing,
		brewTimeTotal:  brewTimeTicks,
		chargesPerFuel: chargesPerFuel,
		policy:         policy,
	}
}

func (b *BrewingStand) Pos() Pos   { return b.pos }
func (b *BrewingStand) Kind() Kind { return KindBrewingStand }

// tryRefuel converts one blaze powder from the fuel slot into charges.
func (b *BrewingStand) tryRefuel() bool {
	if b.Fuel.IsEmpty() || b.Fuel.Item != FuelItem {
		return false
	}
	b.Fuel.Count--
	b.Fuel.Normalize()
	b.FuelCharges += b.chargesPerFuel
	return true
}

// canBrew reports whether the ingredient is set and at least one
// bottle matches a recipe for it.
func (b *BrewingStand) canBrew() bool {
	if b.Ingredient.IsEmpty() {
		return false
	}
	for _, s := range b.Bottles {
		if s.IsEmpty() {
			continue
		}
		if _, ok := b.recipes.Find(b.Ingredient.Item, s.Item); ok {
			return true
		}
	}
	return false
}

func (b *BrewingStand) finishBrew() {
	for i, s := range b.Bottles {
		if s.IsEmpty() {
			continue
		}
		if out, ok := b.recipes.Find(b.Ingredient.Item, s.Item); ok {
			b.Bottles[i].Item = out
		}
	}
	// Exactly one ingredient unit per cycle, however many bottles it hit.
	b.Ingredient.Count--
	b.Ingredient.Normalize()
	b.BrewTime = 0
}

func (b *BrewingStand) Tick(dt int) {
	if dt <= 0 {
		return
	}
	if b.FuelCharges <= 0 {
		b.tryRefuel()
	}
	if !b.canBrew() {
		// Unlike the furnace, an interrupted brew resets immediately.
		b.BrewTime = 0
		return
	}
	if b.BrewTime == 0 {
		if b.FuelCharges <= 0 && !b.tryRefuel() {
			return
		}
		b.FuelCharges--
	}
	b.BrewTime += dt
	if b.BrewTime >= b.brewTimeTotal {
		b.finishBrew()
	}
}

type brewingStateV1 struct {
	Bottles     []item.StackV1 `json:"bottles"`
	Ingredient  item.StackV1   `json:"ingredient"`
	Fuel        item.StackV1   `json:"fuel"`
	BrewTime    int            `json:"brew_time,omitempty"`
	FuelCharges int            `json:"fuel_charges,omitempty"`
}

func (b *BrewingStand) State() json.RawMessage {
	raw, _ := json.Marshal(brewingStateV1{
		Bottles:     item.SliceToV1(b.Bottles[:]),
		Ingredient:  item.ToV1(b.Ingredient),
		Fuel:        item.ToV1(b.Fuel),
		BrewTime:    b.BrewTime,
		FuelCharges: b.FuelCharges,
	})
	return raw
}

func (b *BrewingStand) Restore(state json.RawMessage) {
	var v brewingStateV1
	if len(state) == 0 || json.Unmarshal(state, &v) != nil {
		return
	}
	b.Bottles = [3]item.Stack{}
	for i := 0; i < len(b.Bottles) && i < len(v.Bottles); i++ {
		b.Bottles[i] = item.FromV1(v.Bottles[i], b.policy.MaxStack(v.Bottles[i].Item))
	}
	b.Ingredient = item.FromV1(v.Ingredient, b.policy.MaxStack(v.Ingredient.Item))
	b.Fuel = item.FromV1(v.Fuel, b.policy.MaxStack(v.Fuel.Item))
	b.BrewTime = clampRange(v.BrewTime, 0, b.brewTimeTotal)
	b.FuelCharges = clampMin(v.FuelCharges, 0)
}
