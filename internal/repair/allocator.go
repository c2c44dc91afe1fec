// Package repair turns detected defects into edits against the project and
// drives them to a fixpoint. Repair never touches ladder rung content and
// never modifies the input archive; it only mutates the in-memory project.
package repair

import "fmt"

// Allocator hands out disambiguated task names for one planning session. It
// owns the set of every name occupied anywhere across the three views, plus
// every reservation it has made, so two renames in the same session can
// never collide even before the index is rebuilt.
type Allocator struct {
	used map[string]bool
}

// NewAllocator seeds an allocator with the names currently occupied in any
// of the three mappings.
func NewAllocator(names []string) *Allocator {
	used := make(map[string]bool, len(names))
	for _, n := range names {
		used[n] = true
	}
	return &Allocator{used: used}
}

// Reserve returns base unchanged if it is free, otherwise base_1, base_2, …
// with the smallest positive suffix not in use anywhere. The returned name
// is reserved for the rest of the session.
func (a *Allocator) Reserve(base string) string {
	if !a.used[base] {
		a.used[base] = true
		return base
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		if !a.used[candidate] {
			a.used[candidate] = true
			return candidate
		}
	}
}
