package protocol_test

import (
	"encoding/json"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"craftsim.dev/internal/protocol"
)

func compile(t *testing.T, name, src string) *jsonschema.Schema {
	t.Helper()
	s, err := jsonschema.CompileString(name, src)
	if err != nil {
		t.Fatalf("compile %s: %v", name, err)
	}
	return s
}

func validateJSON(t *testing.T, s *jsonschema.Schema, b []byte) {
	t.Helper()
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := s.Validate(v); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestSchemas_ValidateSamples(t *testing.T) {
	helloSchema := compile(t, "hello.schema.json", protocol.HelloSchema)
	actSchema := compile(t, "act.schema.json", protocol.ActSchema)
	_ = compile(t, "state.schema.json", protocol.StateSchema)

	validateJSON(t, helloSchema, []byte(`{
	  "type":"HELLO",
	  "protocol_version":"1.0",
	  "player_name":"alex"
	}`))

	validateJSON(t, actSchema, []byte(`{
	  "type":"ACT",
	  "seq":3,
	  "act":{"type":"furnace_put","pos":[4,64,-2],"kind":"fuel"}
	}`))

	validateJSON(t, actSchema, []byte(`{
	  "type":"ACT",
	  "act":{"type":"hurt","amount":25,"cause":"lava"}
	}`))
}

func TestSchemas_RoundTripStructs(t *testing.T) {
	stateSchema := compile(t, "state.schema.json", protocol.StateSchema)
	actSchema := compile(t, "act.schema.json", protocol.ActSchema)

	state := protocol.StateMsg{
		Type: protocol.TypeState,
		Tick: 1200,
		Players: []protocol.PlayerView{{
			ID:     "p-0001",
			Name:   "alex",
			Pos:    [3]float64{0.5, 64, 0.5},
			Health: 18,
			Hunger: 20,
			Level:  3,
			Alive:  true,
			Held:   &protocol.ItemStack{Item: "iron_pickaxe", Count: 1, Durability: 140},
		}},
		Tiles:   []protocol.TileView{{Kind: "furnace", Pos: [3]int{4, 64, -2}}},
		Dropped: []protocol.DroppedView{{ID: 7, Item: "bread", Count: 3, Pos: [3]float64{1, 64, 2}}},
		Rules:   map[string]bool{"keepInventory": false},
	}
	b, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	validateJSON(t, stateSchema, b)

	act := protocol.ActMsg{
		Type: protocol.TypeAct,
		Act:  protocol.Action{Type: "move_item", Slot: 3, To: 30},
	}
	b, err = json.Marshal(act)
	if err != nil {
		t.Fatalf("marshal act: %v", err)
	}
	validateJSON(t, actSchema, b)
}

func TestSchemas_RejectMalformed(t *testing.T) {
	actSchema := compile(t, "act.schema.json", protocol.ActSchema)
	var v any
	if err := json.Unmarshal([]byte(`{"type":"ACT","act":{"slot":1}}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := actSchema.Validate(v); err == nil {
		t.Fatalf("act without type passed validation")
	}
}

func TestErrorCodes(t *testing.T) {
	if !protocol.IsKnownCode(protocol.ErrBadRequest) {
		t.Fatalf("known code not recognized")
	}
	if protocol.IsKnownCode("E_NOPE") {
		t.Fatalf("unknown code recognized")
	}
}
