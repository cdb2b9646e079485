package catalogs

// Default returns the built-in tables. Hosts with a config dir override
// individual tables file by file; tests use these directly.
func Default() *Catalogs {
	return &Catalogs{
		Smelting: SmeltingCatalog{
			ByInput: map[string]SmeltRecipe{
				"iron_ore":    {Input: "iron_ore", Output: "iron_ingot", Experience: 0.7},
				"gold_ore":    {Input: "gold_ore", Output: "gold_ingot", Experience: 1.0},
				"sand":        {Input: "sand", Output: "glass", Experience: 0.1},
				"cobblestone": {Input: "cobblestone", Output: "stone", Experience: 0.1},
				"porkchop":    {Input: "porkchop", Output: "cooked_porkchop", Experience: 0.35},
				"beef":        {Input: "beef", Output: "cooked_beef", Experience: 0.35},
				"potato":      {Input: "potato", Output: "baked_potato", Experience: 0.35},
			},
		},
		Fuels: FuelCatalog{
			ByItem: map[string]FuelDef{
				"coal":        {Item: "coal", BurnTicks: 1600},
				"charcoal":    {Item: "charcoal", BurnTicks: 1600},
				"coal_block":  {Item: "coal_block", BurnTicks: 16000},
				"lava_bucket": {Item: "lava_bucket", BurnTicks: 20000, ReturnsContainer: "bucket"},
				"blaze_rod":   {Item: "blaze_rod", BurnTicks: 2400},
				"oak_planks":  {Item: "oak_planks", BurnTicks: 300},
				"stick":       {Item: "stick", BurnTicks: 100},
			},
		},
		Brewing: BrewingCatalog{
			Recipes: []BrewRecipe{
				{Ingredient: "nether_wart", Bottle: "water_bottle", Output: "awkward_potion"},
				{Ingredient: "blaze_powder", Bottle: "awkward_potion", Output: "strength_potion"},
				{Ingredient: "sugar", Bottle: "awkward_potion", Output: "swiftness_potion"},
				{Ingredient: "glistering_melon", Bottle: "awkward_potion", Output: "healing_potion"},
				{Ingredient: "spider_eye", Bottle: "awkward_potion", Output: "poison_potion"},
			},
		},
		StackClasses: StackClassCatalog{
			StackTo1: []string{
				"wooden_sword", "stone_sword", "iron_sword", "diamond_sword",
				"wooden_pickaxe", "stone_pickaxe", "iron_pickaxe", "diamond_pickaxe",
				"iron_axe", "iron_shovel", "bow", "shield", "flint_and_steel",
				"leather_helmet", "leather_chestplate", "leather_leggings", "leather_boots",
				"iron_helmet", "iron_chestplate", "iron_leggings", "iron_boots",
				"diamond_helmet", "diamond_chestplate", "diamond_leggings", "diamond_boots",
				"water_bottle", "awkward_potion", "strength_potion", "swiftness_potion",
				"healing_potion", "poison_potion", "lava_bucket", "music_disc_13", "music_disc_cat",
			},
			StackTo16: []string{"ender_pearl", "egg", "snowball", "bucket", "sign", "honey_bottle"},
		},
		ArmorTiers: ArmorCatalog{
			ByTier: map[string]ArmorTier{
				"leather": {
					Tier:       "leather",
					Defense:    map[string]int{"helmet": 1, "chestplate": 3, "leggings": 2, "boots": 1},
					Durability: map[string]int{"helmet": 55, "chestplate": 80, "leggings": 75, "boots": 65},
				},
				"iron": {
					Tier:       "iron",
					Defense:    map[string]int{"helmet": 2, "chestplate": 6, "leggings": 5, "boots": 2},
					Durability: map[string]int{"helmet": 165, "chestplate": 240, "leggings": 225, "boots": 195},
				},
				"diamond": {
					Tier:       "diamond",
					Defense:    map[string]int{"helmet": 3, "chestplate": 8, "leggings": 6, "boots": 3},
					Toughness:  map[string]float64{"helmet": 2, "chestplate": 2, "leggings": 2, "boots": 2},
					Durability: map[string]int{"helmet": 363, "chestplate": 528, "leggings": 495, "boots": 429},
				},
			},
		},
		DeathMessages: DeathMessageCatalog{
			ByCause: map[string][]string{
				"fall":       {"{player} fell from a high place", "{player} was doomed to fall by {killer}"},
				"drown":      {"{player} drowned", "{player} drowned whilst trying to escape {killer}"},
				"lava":       {"{player} tried to swim in lava", "{player} tried to swim in lava to escape {killer}"},
				"fire":       {"{player} went up in flames", "{player} was burned to a crisp whilst fighting {killer}"},
				"explosion":  {"{player} was blown up", "{player} was blown up by {killer}"},
				"attack":     {"{player} was slain", "{player} was slain by {killer}"},
				"starvation": {"{player} starved to death"},
				"void":       {"{player} fell out of the world"},
				"generic":    {"{player} died"},
			},
		},
	}
}
