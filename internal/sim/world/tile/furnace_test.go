package tile

import (
	"testing"

	"craftsim.dev/internal/sim/catalogs"
	"craftsim.dev/internal/sim/world/item"
)

func testPolicy() item.Policy {
	cats := catalogs.Default()
	return item.NewPolicy(cats.StackClasses.StackTo1, cats.StackClasses.StackTo16)
}

func newTestFurnace() *Furnace {
	return NewFurnace(Pos{X: 1, Y: 2, Z: 3}, catalogs.Default(), testPolicy(), 200)
}

func TestFurnaceSmeltScenario(t *testing.T) {
	f := newTestFurnace()
	f.Input = item.Stack{Item: "iron_ore", Count: 1}
	f.Fuel = item.Stack{Item: "coal", Count: 1}

	// First tick consumes the fuel and starts cooking.
	f.Tick(1)
	if f.BurnTimeRemaining != 1600 || f.BurnTimeTotal != 1600 {
		t.Fatalf("burn = %d/%d, want 1600/1600", f.BurnTimeRemaining, f.BurnTimeTotal)
	}
	if !f.Fuel.IsEmpty() {
		t.Fatalf("fuel not consumed: %+v", f.Fuel)
	}
	if f.CookProgress != 1 {
		t.Fatalf("cook progress = %d, want 1", f.CookProgress)
	}

	for i := 0; i < 200; i++ {
		f.Tick(1)
	}
	if f.Output.Item != "iron_ingot" || f.Output.Count != 1 {
		t.Fatalf("output = %+v, want 1 iron_ingot", f.Output)
	}
	if !f.Input.IsEmpty() {
		t.Fatalf("input not consumed: %+v", f.Input)
	}
	if f.StoredExperience != 0.7 {
		t.Fatalf("stored xp = %v, want 0.7", f.StoredExperience)
	}
	if f.BurnTimeRemaining != 1400 {
		t.Fatalf("burn remaining = %d, want 1400", f.BurnTimeRemaining)
	}
}

func TestFurnaceProgressStrictlyIncreasesWhileFueled(t *testing.T) {
	f := newTestFurnace()
	f.Input = item.Stack{Item: "iron_ore", Count: 8}
	f.Fuel = item.Stack{Item: "coal", Count: 8}
	prev := 0
	for i := 0; i < 150; i++ {
		f.Tick(1)
		if f.CookProgress != prev+1 {
			t.Fatalf("tick %d: progress %d -> %d, want +1", i, prev, f.CookProgress)
		}
		prev = f.CookProgress
	}
}

func TestFurnaceDecaysWithoutFuel(t *testing.T) {
	f := newTestFurnace()
	f.Input = item.Stack{Item: "iron_ore", Count: 1}
	f.CookProgress = 5
	f.Tick(1)
	if f.CookProgress != 3 {
		t.Fatalf("progress = %d, want 3 (decay by 2*dt)", f.CookProgress)
	}
	f.Tick(1)
	f.Tick(1)
	if f.CookProgress != 0 {
		t.Fatalf("progress = %d, must floor at 0", f.CookProgress)
	}
}

func TestFurnaceDecaysWithoutRecipe(t *testing.T) {
	f := newTestFurnace()
	f.Input = item.Stack{Item: "dirt", Count: 1}
	f.Fuel = item.Stack{Item: "coal", Count: 1}
	f.CookProgress = 10
	f.Tick(1)
	if f.CookProgress != 8 {
		t.Fatalf("progress = %d, want 8", f.CookProgress)
	}
	if f.Fuel.IsEmpty() {
		t.Fatalf("fuel must not be consumed without a recipe")
	}
}

func TestFurnaceOutputGating(t *testing.T) {
	f := newTestFurnace()
	f.Input = item.Stack{Item: "iron_ore", Count: 1}
	f.Output = item.Stack{Item: "stone", Count: 1}
	if f.canCook() {
		t.Fatalf("mismatched output must block cooking")
	}
	f.Output = item.Stack{Item: "iron_ingot", Count: 64}
	if f.canCook() {
		t.Fatalf("full output must block cooking")
	}
	f.Output = item.Stack{Item: "iron_ingot", Count: 63}
	if !f.canCook() {
		t.Fatalf("output below max stack must allow cooking")
	}
}

func TestFurnaceLavaBucketLeavesEmptyBucket(t *testing.T) {
	f := newTestFurnace()
	f.Input = item.Stack{Item: "iron_ore", Count: 1}
	f.Fuel = item.Stack{Item: "lava_bucket", Count: 1}
	f.Tick(1)
	if f.Fuel.Item != "bucket" || f.Fuel.Count != 1 {
		t.Fatalf("fuel slot = %+v, want 1 bucket", f.Fuel)
	}
	if f.BurnTimeRemaining != 20000 {
		t.Fatalf("burn = %d, want 20000", f.BurnTimeRemaining)
	}
}

func TestFurnaceCollectExperienceDrains(t *testing.T) {
	f := newTestFurnace()
	f.StoredExperience = 1.4
	if got := f.CollectExperience(); got != 1.4 {
		t.Fatalf("collected %v, want 1.4", got)
	}
	if got := f.CollectExperience(); got != 0 {
		t.Fatalf("second collect = %v, want 0", got)
	}
}

func TestFurnaceRestoreClampsState(t *testing.T) {
	f := newTestFurnace()
	f.Restore([]byte(`{"input":{"item":"iron_ore","count":1},"burn_time_remaining":500,"burn_time_total":100,"cook_progress":-7,"stored_xp":-1}`))
	if f.BurnTimeRemaining != 100 {
		t.Fatalf("burn remaining = %d, must clamp to total", f.BurnTimeRemaining)
	}
	if f.CookProgress != 0 || f.StoredExperience != 0 {
		t.Fatalf("negative fields not clamped: %d %v", f.CookProgress, f.StoredExperience)
	}

	// Malformed payloads leave state untouched.
	before := *f
	f.Restore([]byte(`{broken`))
	if f.BurnTimeRemaining != before.BurnTimeRemaining {
		t.Fatalf("malformed restore mutated state")
	}
}
