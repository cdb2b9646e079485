package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Catalogs holds the static, read-only tables the simulation consumes:
// smelting recipes, fuel values, brewing recipes, stack-size classes,
// armor tier stats and death message templates. Tables are loaded from
// JSON files in a config directory; any missing file falls back to the
// built-in defaults so a host can run without a config dir at all.
type Catalogs struct {
	Smelting      SmeltingCatalog
	Fuels         FuelCatalog
	Brewing       BrewingCatalog
	StackClasses  StackClassCatalog
	ArmorTiers    ArmorCatalog
	DeathMessages DeathMessageCatalog
}

type SmeltingCatalog struct {
	ByInput map[string]SmeltRecipe
	Digest  string
}

type SmeltRecipe struct {
	Input      string  `json:"input"`
	Output     string  `json:"output"`
	Experience float64 `json:"experience"`
	CookTicks  int     `json:"cook_ticks,omitempty"`
}

type FuelCatalog struct {
	ByItem map[string]FuelDef
	Digest string
}

type FuelDef struct {
	Item      string `json:"item"`
	BurnTicks int    `json:"burn_ticks"`
	// ReturnsContainer names an item left behind when the last unit of
	// this fuel is consumed (lava bucket leaves an empty bucket).
	ReturnsContainer string `json:"returns_container,omitempty"`
}

type BrewingCatalog struct {
	Recipes []BrewRecipe
	Digest  string
}

type BrewRecipe struct {
	Ingredient string `json:"ingredient"`
	Bottle     string `json:"bottle"`
	Output     string `json:"output"`
}

// Find returns the output bottle for an (ingredient, bottle) pair.
func (c BrewingCatalog) Find(ingredient, bottle string) (string, bool) {
	for _, r := range c.Recipes {
		if r.Ingredient == ingredient && r.Bottle == bottle {
			return r.Output, true
		}
	}
	return "", false
}

type StackClassCatalog struct {
	StackTo1  []string `json:"stack_to_1"`
	StackTo16 []string `json:"stack_to_16"`
	Digest    string   `json:"-"`
}

type ArmorCatalog struct {
	ByTier map[string]ArmorTier
	Digest string
}

// ArmorTier carries per-slot stats keyed by the armor slot name
// (helmet, chestplate, leggings, boots).
type ArmorTier struct {
	Tier       string             `json:"tier"`
	Defense    map[string]int     `json:"defense"`
	Toughness  map[string]float64 `json:"toughness,omitempty"`
	Durability map[string]int     `json:"durability,omitempty"`
}

type DeathMessageCatalog struct {
	ByCause map[string][]string
	Digest  string
}

func Load(configDir string) (*Catalogs, error) {
	c := Default()

	if err := loadSmelting(filepath.Join(configDir, "smelting.json"), &c.Smelting); err != nil {
		return nil, err
	}
	if err := loadFuels(filepath.Join(configDir, "fuels.json"), &c.Fuels); err != nil {
		return nil, err
	}
	if err := loadBrewing(filepath.Join(configDir, "brewing.json"), &c.Brewing); err != nil {
		return nil, err
	}
	if err := loadStackClasses(filepath.Join(configDir, "stack_sizes.json"), &c.StackClasses); err != nil {
		return nil, err
	}
	if err := loadArmorTiers(filepath.Join(configDir, "armor_tiers.json"), &c.ArmorTiers); err != nil {
		return nil, err
	}
	if err := loadDeathMessages(filepath.Join(configDir, "death_messages.json"), &c.DeathMessages); err != nil {
		return nil, err
	}

	return c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// readOptional returns (nil, nil) when the file is absent so each table
// keeps its default contents.
func readOptional(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return raw, nil
}

func loadSmelting(path string, out *SmeltingCatalog) error {
	raw, err := readOptional(path)
	if err != nil || raw == nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []SmeltRecipe
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("smelting.json: %w", err)
	}
	out.ByInput = map[string]SmeltRecipe{}
	for _, r := range defs {
		if r.Input == "" || r.Output == "" {
			return fmt.Errorf("smelting.json: recipe missing input/output")
		}
		if _, dup := out.ByInput[r.Input]; dup {
			return fmt.Errorf("smelting.json: duplicate input %q", r.Input)
		}
		out.ByInput[r.Input] = r
	}
	return nil
}

func loadFuels(path string, out *FuelCatalog) error {
	raw, err := readOptional(path)
	if err != nil || raw == nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []FuelDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("fuels.json: %w", err)
	}
	out.ByItem = map[string]FuelDef{}
	for _, d := range defs {
		if d.Item == "" || d.BurnTicks <= 0 {
			return fmt.Errorf("fuels.json: bad fuel entry %q", d.Item)
		}
		out.ByItem[d.Item] = d
	}
	return nil
}

func loadBrewing(path string, out *BrewingCatalog) error {
	raw, err := readOptional(path)
	if err != nil || raw == nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []BrewRecipe
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("brewing.json: %w", err)
	}
	for _, r := range defs {
		if r.Ingredient == "" || r.Bottle == "" || r.Output == "" {
			return fmt.Errorf("brewing.json: incomplete recipe %+v", r)
		}
	}
	out.Recipes = defs
	return nil
}

func loadStackClasses(path string, out *StackClassCatalog) error {
	raw, err := readOptional(path)
	if err != nil || raw == nil {
		return err
	}
	digest := sha256Hex(raw)
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("stack_sizes.json: %w", err)
	}
	out.Digest = digest
	return nil
}

func loadArmorTiers(path string, out *ArmorCatalog) error {
	raw, err := readOptional(path)
	if err != nil || raw == nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []ArmorTier
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("armor_tiers.json: %w", err)
	}
	out.ByTier = map[string]ArmorTier{}
	for _, d := range defs {
		if d.Tier == "" {
			return fmt.Errorf("armor_tiers.json: empty tier")
		}
		out.ByTier[d.Tier] = d
	}
	return nil
}

func loadDeathMessages(path string, out *DeathMessageCatalog) error {
	raw, err := readOptional(path)
	if err != nil || raw == nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs map[string][]string
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("death_messages.json: %w", err)
	}
	for cause, templates := range defs {
		if len(templates) == 0 {
			return fmt.Errorf("death_messages.json: cause %q has no templates", cause)
		}
	}
	out.ByCause = defs
	return nil
}
