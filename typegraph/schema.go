package typegraph

// Schema is an arena of types plus the handle of the inferred root.
// A schema is immutable once emission begins.
type Schema struct {
	Arena *TypeArena
	Root  ArenaIndex
}

// children calls fn for each handle directly referenced by t, in
// deterministic order (field order for maps, sorted handles for unions).
func children(t *Type, fn func(ArenaIndex)) {
	switch t.Kind {
	case KindMap:
		t.Map.Fields(func(_ string, c ArenaIndex) { fn(c) })
	case KindArray:
		fn(t.Elem)
	case KindUnion:
		for _, c := range t.Union.Members() {
			fn(c)
		}
	}
}

// IterTopdown returns every handle reachable from the root exactly once,
// in depth-first order starting at the root. The order is unspecified but
// stable within one pass.
func (s *Schema) IterTopdown() []ArenaIndex {
	var out []ArenaIndex

	stack := []ArenaIndex{s.Root}
	seen := map[ArenaIndex]struct{}{s.Root: {}}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, curr)

		children(s.Arena.MustGet(curr), func(c ArenaIndex) {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				stack = append(stack, c)
			}
		})
	}

	return out
}

// Dominant returns the composite types that must be emitted as named
// definitions, in first-visit order: maps and unions that either anchor the
// root (the root itself, or the inner map(s) when the root is an array of
// maps or an array of a union over maps) or are referenced more than once,
// whether from different parents or from two fields of the same parent.
// Primitives are shared singletons and are never dominant; a root array over
// primitives contributes nothing.
func (s *Schema) Dominant() []ArenaIndex {
	// Count references per reachable handle.
	refs := make(map[ArenaIndex]int)

	for _, i := range s.IterTopdown() {
		children(s.Arena.MustGet(i), func(c ArenaIndex) {
			refs[c]++
		})
	}

	anchors := make(map[ArenaIndex]struct{})
	for _, i := range s.rootAnchors() {
		anchors[i] = struct{}{}
	}

	var out []ArenaIndex

	for _, i := range s.IterTopdown() {
		t := s.Arena.MustGet(i)
		if t.Kind != KindMap && t.Kind != KindUnion {
			continue
		}

		if _, ok := anchors[i]; ok || refs[i] > 1 {
			out = append(out, i)
		}
	}

	return out
}

// rootAnchors resolves the root to the composite(s) that represent it:
// the root itself for maps and unions, and the inner map(s) when the root
// is Array(Map) or Array(Union{.., Map, ..}).
func (s *Schema) rootAnchors() []ArenaIndex {
	t := s.Arena.MustGet(s.Root)

	switch t.Kind {
	case KindMap, KindUnion:
		return []ArenaIndex{s.Root}
	case KindArray:
		inner := s.Arena.MustGet(t.Elem)

		switch inner.Kind {
		case KindMap:
			return []ArenaIndex{t.Elem}
		case KindUnion:
			var out []ArenaIndex

			for _, m := range inner.Union.Members() {
				if s.Arena.MustGet(m).Kind == KindMap {
					out = append(out, m)
				}
			}

			return out
		}
	}

	return nil
}
