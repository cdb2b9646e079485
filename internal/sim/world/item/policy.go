package item

// Policy is the stack-size classification: a small "stack to 1" set
// (tools, weapons, armor, uniques), a "stack to 16" set (select
// throwables), and a default of 64 for everything else. Every
// stack-creating or merging operation consults it.
type Policy struct {
	StackTo1  map[string]bool
	StackTo16 map[string]bool
}

const DefaultMaxStack = 64

func (p Policy) MaxStack(itemID string) int {
	if p.StackTo1[itemID] {
		return 1
	}
	if p.StackTo16[itemID] {
		return 16
	}
	return DefaultMaxStack
}

// NewPolicy builds a policy from the catalog's class lists.
func NewPolicy(stackTo1, stackTo16 []string) Policy {
	p := Policy{
		StackTo1:  make(map[string]bool, len(stackTo1)),
		StackTo16: make(map[string]bool, len(stackTo16)),
	}
	for _, id := range stackTo1 {
		p.StackTo1[id] = true
	}
	for _, id := range stackTo16 {
		p.StackTo16[id] = true
	}
	return p
}
