package death

// Game rule keys.
const (
	RuleKeepInventory     = "keepInventory"
	RuleShowDeathMessages = "showDeathMessages"
	RuleImmediateRespawn  = "immediateRespawn"
)

// Rules is the named-boolean game rule surface. Defaults favor item
// loss, message broadcast and showing the death screen.
type Rules struct {
	values map[string]bool
}

func NewRules() *Rules {
	return &Rules{values: map[string]bool{
		RuleKeepInventory:     false,
		RuleShowDeathMessages: true,
		RuleImmediateRespawn:  false,
	}}
}

func (r *Rules) Get(key string) bool { return r.values[key] }

// Set updates a known rule; unknown keys are ignored.
func (r *Rules) Set(key string, v bool) {
	if _, ok := r.values[key]; ok {
		r.values[key] = v
	}
}

// All snapshots the rule map.
func (r *Rules) All() map[string]bool {
	out := make(map[string]bool, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Restore loads rule values, ignoring unknown keys.
func (r *Rules) Restore(values map[string]bool) {
	for k, v := range values {
		r.Set(k, v)
	}
}
