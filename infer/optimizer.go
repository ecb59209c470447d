package infer

import (
	"go.jacobcolvin.com/typelift/typegraph"
)

// Optimizer reduces an inferred type graph by collapsing structurally
// similar maps and duplicate unions.
type Optimizer struct {
	// MergeSimilarMaps merges maps whose field-name sets have a Tversky
	// index above 0.8.
	MergeSimilarMaps bool
	// MergeEqualUnions merges unions with identical member sets.
	MergeEqualUnions bool
}

// Optimize rewrites s in place. Maps are merged before unions; running both
// in a single pass produces incorrect results because union equality is only
// meaningful once map handles have settled.
func (o Optimizer) Optimize(s *typegraph.Schema) {
	if o.MergeSimilarMaps {
		mergePass(s, func(a, b *typegraph.Type) bool {
			return a.Kind == typegraph.KindMap &&
				b.Kind == typegraph.KindMap &&
				a.Map.SimilarTo(b.Map)
		})
	}

	if o.MergeEqualUnions {
		mergePass(s, func(a, b *typegraph.Type) bool {
			return a.Kind == typegraph.KindUnion &&
				b.Kind == typegraph.KindUnion &&
				a.Union.Equal(b.Union)
		})
	}
}

// mergePass unions every non-trivial component of the equivalence closure of
// pred through a merge view, then flattens all redirected references.
func mergePass(s *typegraph.Schema, pred func(a, b *typegraph.Type) bool) {
	sets := s.Arena.FindDisjointSets(pred)
	if len(sets) == 0 {
		return
	}

	reps := make([]typegraph.ArenaIndex, 0, len(sets))
	for rep := range sets {
		reps = append(reps, rep)
	}

	typegraph.SortIndices(reps)

	view := typegraph.NewMergeView(s.Arena)

	for _, rep := range reps {
		// Merging one component can consume members of another (field
		// values are merged recursively), so resolve each member to its
		// current representative and drop the ones already unified.
		var (
			live []typegraph.ArenaIndex
			seen = make(map[typegraph.ArenaIndex]struct{})
		)

		for _, m := range sets[rep] {
			r := view.Rep(m)
			if view.Get(r) == nil {
				continue
			}

			if _, ok := seen[r]; ok {
				continue
			}

			seen[r] = struct{}{}
			live = append(live, r)
		}

		if len(live) < 2 {
			continue
		}

		Union(view, live)
	}

	view.Close()

	s.Root = view.Rep(s.Root)
}
