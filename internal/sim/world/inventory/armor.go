package inventory

import (
	"strings"

	"craftsim.dev/internal/sim/world/item"
)

// armorSlotFor resolves an item id to its armor slot by substring
// match ("iron_chestplate" -> chestplate slot), -1 when not armor.
func armorSlotFor(itemID string) int {
	for i, name := range armorSlotNames {
		if strings.Contains(itemID, name) {
			return i
		}
	}
	return -1
}

// armorTierFor resolves the tier prefix of an armor item id
// ("iron_helmet" -> "iron").
func armorTierFor(itemID string) string {
	if i := strings.IndexByte(itemID, '_'); i > 0 {
		return itemID[:i]
	}
	return ""
}

// EquipArmor swaps the stack in a main slot with the matching armor
// slot. Non-armor items are ignored.
func (m *Manager) EquipArmor(slot int) {
	if !m.inRange(slot) || m.Main[slot].IsEmpty() {
		return
	}
	as := armorSlotFor(m.Main[slot].Item)
	if as < 0 {
		return
	}
	m.Main[slot], m.Armor[as] = m.Armor[as], m.Main[slot]
}

// ArmorDefense sums the tier table's defense values over every
// equipped piece.
func (m *Manager) ArmorDefense() int {
	total := 0
	for i, s := range m.Armor {
		if s.IsEmpty() {
			continue
		}
		tier, ok := m.tiers.ByTier[armorTierFor(s.Item)]
		if !ok {
			continue
		}
		total += tier.Defense[armorSlotNames[i]]
	}
	return total
}

// ArmorToughness sums the tier table's toughness values over every
// equipped piece.
func (m *Manager) ArmorToughness() float64 {
	total := 0.0
	for i, s := range m.Armor {
		if s.IsEmpty() {
			continue
		}
		tier, ok := m.tiers.ByTier[armorTierFor(s.Item)]
		if !ok {
			continue
		}
		total += tier.Toughness[armorSlotNames[i]]
	}
	return total
}

// DamageArmor reduces durability on every equipped piece, removing a
// piece that reaches zero.
func (m *Manager) DamageArmor(amount int) {
	if amount <= 0 {
		return
	}
	for i := range m.Armor {
		if m.Armor[i].IsEmpty() || m.Armor[i].Durability <= 0 {
			continue
		}
		m.Armor[i].Durability -= amount
		if m.Armor[i].Durability <= 0 {
			m.Armor[i] = item.Stack{}
		}
	}
}

// DamageTool applies wear to the tool in a main slot. An "unbreaking"
// enchantment of level L skips the damage with probability L/(L+1).
// Returns true when the tool broke and was destroyed.
func (m *Manager) DamageTool(slot, amount int) bool {
	if !m.inRange(slot) || amount <= 0 {
		return false
	}
	s := &m.Main[slot]
	if s.IsEmpty() || s.Durability <= 0 {
		return false
	}
	if lvl := s.EnchantLevel("unbreaking"); lvl > 0 {
		if m.rng.Intn(lvl+1) != 0 {
			return false
		}
	}
	s.Durability -= amount
	if s.Durability <= 0 {
		*s = item.Stack{}
		return true
	}
	return false
}
