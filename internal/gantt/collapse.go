package gantt

import "sort"

// CollapseSet holds collapsed row paths. Keys are row ids, never indexes, so
// collapse state survives re-layout.
type CollapseSet map[string]bool

func NewCollapseSet(ids ...string) CollapseSet {
	s := make(CollapseSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Has is safe on a nil set.
func (s CollapseSet) Has(id string) bool {
	return s != nil && s[id]
}

// Toggle flips id and reports whether it is now collapsed.
func (s CollapseSet) Toggle(id string) bool {
	if s[id] {
		delete(s, id)
		return false
	}
	s[id] = true
	return true
}

// IDs returns the collapsed row ids in sorted order.
func (s CollapseSet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
