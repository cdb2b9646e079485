package item

// StackV1 is the plain structural record a Stack serializes to. Empty
// slots encode as the zero record.
type StackV1 struct {
	Item         string            `json:"item,omitempty"`
	Count        int               `json:"count,omitempty"`
	Durability   int               `json:"durability,omitempty"`
	Enchantments map[string]int    `json:"enchantments,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
}

func ToV1(s Stack) StackV1 {
	if s.IsEmpty() {
		return StackV1{}
	}
	s = s.Clone()
	return StackV1{
		Item:         s.Item,
		Count:        s.Count,
		Durability:   s.Durability,
		Enchantments: s.Enchantments,
		Data:         s.Data,
	}
}

// FromV1 decodes a record, tolerating malformed input: a missing item
// or non-positive count yields the empty slot, and max (when > 0)
// clamps oversized counts instead of rejecting them.
func FromV1(v StackV1, max int) Stack {
	if v.Item == "" || v.Count <= 0 {
		return Stack{}
	}
	s := Stack{
		Item:         v.Item,
		Count:        v.Count,
		Durability:   v.Durability,
		Enchantments: v.Enchantments,
		Data:         v.Data,
	}
	if max > 0 && s.Count > max {
		s.Count = max
	}
	if s.Durability < 0 {
		s.Durability = 0
	}
	return s.Clone()
}

func SliceToV1(src []Stack) []StackV1 {
	out := make([]StackV1, len(src))
	for i, s := range src {
		out[i] = ToV1(s)
	}
	return out
}
