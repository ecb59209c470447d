package typegraph

import (
	"fmt"
	"sort"
)

// ArenaIndex is a stable opaque handle into a [TypeArena]. Handles survive
// unrelated removals: a freed slot is reused under a new generation, so a
// stale handle never resolves to the new occupant. The zero value is invalid.
type ArenaIndex struct {
	slot uint32
	gen  uint32
}

// IsZero reports whether i is the invalid zero handle.
func (i ArenaIndex) IsZero() bool {
	return i.gen == 0
}

func (i ArenaIndex) String() string {
	return fmt.Sprintf("#%d@%d", i.slot, i.gen)
}

func (i ArenaIndex) less(j ArenaIndex) bool {
	if i.slot != j.slot {
		return i.slot < j.slot
	}

	return i.gen < j.gen
}

// SortIndices orders handles by slot, then generation. Sorting by handle is
// the deterministic tiebreak used wherever unordered sets must iterate
// reproducibly.
func SortIndices(s []ArenaIndex) {
	sort.Slice(s, func(a, b int) bool { return s[a].less(s[b]) })
}

// Store is the mutable arena surface the union algebra operates on. It is
// implemented by [TypeArena] directly and by [MergeView], which redirects
// handles through a union-find during optimization.
type Store interface {
	// Get returns the live type under i, or nil if the slot is dead.
	Get(i ArenaIndex) *Type
	// Insert stores t under a fresh handle.
	Insert(t Type) ArenaIndex
	// Remove frees the slot under i and returns its former content.
	Remove(i ArenaIndex) Type
	// RemoveInFavorOf frees i, promising that every outstanding reference
	// to i is (or will be) rewritten to j before it is next observed.
	RemoveInFavorOf(i, j ArenaIndex) Type
	// Primitive returns the canonical slot for a primitive kind.
	Primitive(k Kind) ArenaIndex
}

type arenaSlot struct {
	t    Type
	gen  uint32
	live bool
}

// TypeArena stores every [Type] of a schema under a stable [ArenaIndex].
// One canonical slot per primitive kind is pre-inserted at construction;
// all inferred primitives share those slots.
type TypeArena struct {
	slots      []arenaSlot
	free       []uint32
	count      int
	primitives map[Kind]ArenaIndex
}

// NewTypeArena returns an arena with every primitive singleton pre-inserted.
func NewTypeArena() *TypeArena {
	a := &TypeArena{primitives: make(map[Kind]ArenaIndex, len(primitiveKinds))}
	for _, k := range primitiveKinds {
		a.primitives[k] = a.Insert(Primitive(k))
	}

	return a
}

// Insert stores t under a fresh handle, reusing freed slots.
func (a *TypeArena) Insert(t Type) ArenaIndex {
	if n := len(a.free); n > 0 {
		slot := a.free[n-1]
		a.free = a.free[:n-1]

		s := &a.slots[slot]
		s.t = t
		s.live = true
		a.count++

		return ArenaIndex{slot: slot, gen: s.gen}
	}

	// Generations start at 1 so the zero ArenaIndex stays invalid.
	a.slots = append(a.slots, arenaSlot{t: t, gen: 1, live: true})
	a.count++

	return ArenaIndex{slot: uint32(len(a.slots) - 1), gen: 1}
}

// Get returns the type under i, or nil if i is stale or was removed.
// The pointer stays valid until the slot is removed.
func (a *TypeArena) Get(i ArenaIndex) *Type {
	if !a.Contains(i) {
		return nil
	}

	return &a.slots[i.slot].t
}

// MustGet is Get for handles that are required to be live; a dead handle is
// an internal invariant violation and panics.
func (a *TypeArena) MustGet(i ArenaIndex) *Type {
	t := a.Get(i)
	if t == nil {
		panic(fmt.Sprintf("typegraph: dangling arena handle %s", i))
	}

	return t
}

// Contains reports whether i refers to a live slot.
func (a *TypeArena) Contains(i ArenaIndex) bool {
	return !i.IsZero() &&
		int(i.slot) < len(a.slots) &&
		a.slots[i.slot].live &&
		a.slots[i.slot].gen == i.gen
}

// Remove frees the slot under i and returns its former content.
// Removing a dead handle panics.
func (a *TypeArena) Remove(i ArenaIndex) Type {
	if !a.Contains(i) {
		panic(fmt.Sprintf("typegraph: remove of dangling arena handle %s", i))
	}

	s := &a.slots[i.slot]
	t := s.t
	s.t = Type{}
	s.live = false
	s.gen++
	a.count--
	a.free = append(a.free, i.slot)

	return t
}

// RemoveInFavorOf implements [Store]. The plain arena has no outstanding
// references to track, so it is identical to Remove.
func (a *TypeArena) RemoveInFavorOf(i, _ ArenaIndex) Type {
	return a.Remove(i)
}

// Primitive returns the canonical slot for a primitive kind.
func (a *TypeArena) Primitive(k Kind) ArenaIndex {
	i, ok := a.primitives[k]
	if !ok {
		panic(fmt.Sprintf("typegraph: no canonical slot for kind %s", k))
	}

	return i
}

// Len returns the number of live slots.
func (a *TypeArena) Len() int {
	return a.count
}

// Indices returns every live handle in slot order. The snapshot is stable
// for the duration of one pass over an unmodified arena.
func (a *TypeArena) Indices() []ArenaIndex {
	out := make([]ArenaIndex, 0, a.count)

	for slot := range a.slots {
		if a.slots[slot].live {
			out = append(out, ArenaIndex{slot: uint32(slot), gen: a.slots[slot].gen})
		}
	}

	return out
}

// Iter calls fn for each live slot in slot order.
func (a *TypeArena) Iter(fn func(i ArenaIndex, t *Type)) {
	for _, i := range a.Indices() {
		if t := a.Get(i); t != nil {
			fn(i, t)
		}
	}
}

// FindDisjointSets returns the connected components of the equivalence
// closure of pred over the currently live slots, keyed by a deterministic
// representative (the smallest handle of each component). Singleton
// components are omitted; every slot matching pred against another appears
// in exactly one component.
func (a *TypeArena) FindDisjointSets(pred func(a, b *Type) bool) map[ArenaIndex][]ArenaIndex {
	indices := a.Indices()
	dsu := newUnionFind(len(indices))

	for x := range indices {
		for y := x + 1; y < len(indices); y++ {
			if pred(a.MustGet(indices[x]), a.MustGet(indices[y])) {
				dsu.union(x, y)
			}
		}
	}

	// Group members under the smallest handle of each component.
	byRoot := make(map[int][]ArenaIndex)
	for x := range indices {
		root := dsu.find(x)
		byRoot[root] = append(byRoot[root], indices[x])
	}

	sets := make(map[ArenaIndex][]ArenaIndex, len(byRoot))

	for _, members := range byRoot {
		if len(members) < 2 {
			continue
		}

		SortIndices(members)
		sets[members[0]] = members
	}

	return sets
}
