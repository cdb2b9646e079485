package item

// Stack is the contents of one inventory slot. The zero value is the
// empty slot; every mutating helper normalizes a drained stack back to
// the zero value so a count of 0 never coexists with an item id.
type Stack struct {
	Item         string
	Count        int
	Durability   int
	Enchantments map[string]int
	Data         map[string]string
}

func (s Stack) IsEmpty() bool { return s.Item == "" || s.Count <= 0 }

// Clone deep-copies the stack so callers can hand out snapshots without
// sharing the tag maps.
func (s Stack) Clone() Stack {
	out := s
	if len(s.Enchantments) > 0 {
		out.Enchantments = make(map[string]int, len(s.Enchantments))
		for k, v := range s.Enchantments {
			out.Enchantments[k] = v
		}
	}
	if len(s.Data) > 0 {
		out.Data = make(map[string]string, len(s.Data))
		for k, v := range s.Data {
			out.Data[k] = v
		}
	}
	return out
}

// WithCount returns a copy carrying n units and the same tags.
func (s Stack) WithCount(n int) Stack {
	if n <= 0 {
		return Stack{}
	}
	out := s.Clone()
	out.Count = n
	return out
}

// One returns a single-unit copy preserving durability and tags.
func (s Stack) One() Stack { return s.WithCount(1) }

// EnchantLevel returns the level of the named enchantment, 0 when absent.
func (s Stack) EnchantLevel(name string) int {
	if s.Enchantments == nil {
		return 0
	}
	return s.Enchantments[name]
}

// Normalize collapses a drained stack to the zero value.
func (s *Stack) Normalize() {
	if s.Item == "" || s.Count <= 0 {
		*s = Stack{}
	}
}

// Merge moves as many units as fit from src onto dst, bounded by max.
// dst must be empty or hold the same item id. Returns the updated pair;
// the second value is the unmoved remainder.
func Merge(dst, src Stack, max int) (Stack, Stack) {
	if src.IsEmpty() {
		return dst, Stack{}
	}
	if dst.IsEmpty() {
		if src.Count <= max {
			return src, Stack{}
		}
		return src.WithCount(max), src.WithCount(src.Count - max)
	}
	if dst.Item != src.Item {
		return dst, src
	}
	room := max - dst.Count
	if room <= 0 {
		return dst, src
	}
	moved := src.Count
	if moved > room {
		moved = room
	}
	dst.Count += moved
	src.Count -= moved
	src.Normalize()
	return dst, src
}

// SplitHalf removes the larger half of the stack. For count <= 1 the
// stack is returned untouched with an empty taken value.
func SplitHalf(s Stack) (taken, left Stack) {
	if s.IsEmpty() || s.Count <= 1 {
		return Stack{}, s
	}
	take := (s.Count + 1) / 2
	return s.WithCount(take), s.WithCount(s.Count - take)
}
