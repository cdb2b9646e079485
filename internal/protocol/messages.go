package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	PlayerName      string `json:"player_name"`
	Observer        bool   `json:"observer,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	PlayerID        string      `json:"player_id,omitempty"`
	WorldID         string      `json:"world_id"`
	WorldParams     WorldParams `json:"world_params"`
	Catalogs        Digests     `json:"catalogs"`
}

type WorldParams struct {
	TickRateHz int        `json:"tick_rate_hz"`
	Spawn      [3]float64 `json:"spawn"`
	Seed       int64      `json:"seed,omitempty"`
}

// Digests let a client detect catalog drift without re-downloading.
type Digests struct {
	Smelting      string `json:"smelting_digest,omitempty"`
	Fuels         string `json:"fuels_digest,omitempty"`
	Brewing       string `json:"brewing_digest,omitempty"`
	StackClasses  string `json:"stack_classes_digest,omitempty"`
	ArmorTiers    string `json:"armor_tiers_digest,omitempty"`
	DeathMessages string `json:"death_messages_digest,omitempty"`
}

// ACT (client -> server). The action body mirrors the simulation's
// action surface; the server converts it at the boundary.
type ActMsg struct {
	Type string `json:"type"`
	Seq  uint64 `json:"seq,omitempty"`
	Act  Action `json:"act"`
}

type Action struct {
	Type string `json:"type"`

	Slot  int  `json:"slot,omitempty"`
	To    int  `json:"to,omitempty"`
	Count int  `json:"count,omitempty"`
	Index int  `json:"index,omitempty"`
	All   bool `json:"all,omitempty"`

	Pos    [3]int `json:"pos,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Facing int    `json:"facing,omitempty"`

	Line int    `json:"line,omitempty"`
	Text string `json:"text,omitempty"`

	Amount int    `json:"amount,omitempty"`
	Cause  string `json:"cause,omitempty"`
	Killer string `json:"killer,omitempty"`

	Rule  string `json:"rule,omitempty"`
	Value bool   `json:"value,omitempty"`

	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`
	Z float64 `json:"z,omitempty"`
}

// STATE (server -> observer). A full read-only view of the world,
// published once per observer poll.
type StateMsg struct {
	Type    string          `json:"type"`
	Tick    uint64          `json:"tick"`
	Players []PlayerView    `json:"players"`
	Tiles   []TileView      `json:"tiles,omitempty"`
	Dropped []DroppedView   `json:"dropped,omitempty"`
	Rules   map[string]bool `json:"rules,omitempty"`
}

type PlayerView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Pos       [3]float64 `json:"pos"`
	Dimension string     `json:"dimension,omitempty"`
	Health    int        `json:"health"`
	Hunger    int        `json:"hunger"`
	Level     int        `json:"level"`
	Alive     bool       `json:"alive"`
	Selected  int        `json:"selected_hotbar"`
	Held      *ItemStack `json:"held,omitempty"`
}

type TileView struct {
	Kind string `json:"kind"`
	Pos  [3]int `json:"pos"`
}

type DroppedView struct {
	ID        uint64     `json:"id"`
	Item      string     `json:"item"`
	Count     int        `json:"count"`
	Pos       [3]float64 `json:"pos"`
	Dimension string     `json:"dimension,omitempty"`
}

// ItemStack is the wire form of one inventory stack.
type ItemStack struct {
	Item       string `json:"item"`
	Count      int    `json:"count"`
	Durability int    `json:"durability,omitempty"`
}

// ERROR (server -> client)
type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
