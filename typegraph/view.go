package typegraph

import "fmt"

// MergeView is a scoped, DSU-aware wrapper around a [TypeArena] used during
// optimization, when multiple handles become aliases of one representative.
// Reads are redirected to the current representative of each handle, and
// [MergeView.RemoveInFavorOf] records the redirect instead of leaving a
// dangling reference behind.
//
// The view must be the sole mutator of the arena for its lifetime, and
// [MergeView.Close] must be called exactly once before the arena is observed
// directly again: Close rewrites every reference held by every live slot to
// its representative, so the arena is never seen in the intermediate
// "merged but not flattened" state.
type MergeView struct {
	arena  *TypeArena
	parent map[ArenaIndex]ArenaIndex
	closed bool
}

// NewMergeView wraps arena for one optimization pass.
func NewMergeView(arena *TypeArena) *MergeView {
	return &MergeView{
		arena:  arena,
		parent: make(map[ArenaIndex]ArenaIndex),
	}
}

// Rep returns the current representative of i. Handles never merged map to
// themselves. Rep remains valid after Close.
func (v *MergeView) Rep(i ArenaIndex) ArenaIndex {
	root := i
	for {
		next, ok := v.parent[root]
		if !ok {
			break
		}

		root = next
	}

	// Path compression.
	for i != root {
		next := v.parent[i]
		v.parent[i] = root
		i = next
	}

	return root
}

// Get implements [Store], redirecting to the representative of i.
func (v *MergeView) Get(i ArenaIndex) *Type {
	return v.arena.Get(v.Rep(i))
}

// Insert implements [Store].
func (v *MergeView) Insert(t Type) ArenaIndex {
	return v.arena.Insert(t)
}

// Remove implements [Store].
func (v *MergeView) Remove(i ArenaIndex) Type {
	return v.arena.Remove(v.Rep(i))
}

// RemoveInFavorOf implements [Store]: the slot under i is freed and i is
// unioned into j, so subsequent lookups of i (and of anything previously
// merged into i) resolve to j's representative.
func (v *MergeView) RemoveInFavorOf(i, j ArenaIndex) Type {
	ri, rj := v.Rep(i), v.Rep(j)
	if ri == rj {
		panic(fmt.Sprintf("typegraph: remove of %s in favor of its own representative", i))
	}

	t := v.arena.Remove(ri)
	v.parent[ri] = rj

	return t
}

// Primitive implements [Store].
func (v *MergeView) Primitive(k Kind) ArenaIndex {
	return v.arena.Primitive(k)
}

// Close releases the view: every reference held by every live slot is
// rewritten to its representative. Unions whose member set collapses to a
// single non-self member in the process are trivial and are dissolved in
// favor of that member, which can cascade; Close repeats until a fixed
// point. Calling Close twice panics.
func (v *MergeView) Close() {
	if v.closed {
		panic("typegraph: merge view closed twice")
	}

	v.closed = true

	for {
		v.flatten()

		if !v.dissolveTrivialUnions() {
			return
		}
	}
}

func (v *MergeView) flatten() {
	v.arena.Iter(func(_ ArenaIndex, t *Type) {
		switch t.Kind {
		case KindMap:
			t.Map.rewrite(v.Rep)
		case KindArray:
			t.Elem = v.Rep(t.Elem)
		case KindUnion:
			t.Union.rewrite(v.Rep)
		}
	})
}

// dissolveTrivialUnions removes unions reduced to one member by merging,
// recording the member as their representative. Reports whether any union
// was dissolved (requiring another flatten pass).
func (v *MergeView) dissolveTrivialUnions() bool {
	dissolved := false

	for _, i := range v.arena.Indices() {
		t := v.arena.MustGet(i)
		if t.Kind != KindUnion || t.Union.Len() != 1 {
			continue
		}

		member := t.Union.Members()[0]
		if member == i {
			// Degenerate self-reference; nothing sensible to redirect to.
			continue
		}

		v.arena.Remove(i)
		v.parent[i] = member
		dissolved = true
	}

	return dissolved
}
