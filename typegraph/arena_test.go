package typegraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/typelift/typegraph"
)

func TestArenaInsertGetRemove(t *testing.T) {
	t.Parallel()

	arena := typegraph.NewTypeArena()

	m := typegraph.NewMap()
	m.Set("id", arena.Primitive(typegraph.KindInt))

	idx := arena.Insert(typegraph.MapType(m))
	require.True(t, arena.Contains(idx))

	got := arena.Get(idx)
	require.NotNil(t, got)
	assert.Equal(t, typegraph.KindMap, got.Kind)
	assert.Equal(t, 1, got.Map.Len())

	removed := arena.Remove(idx)
	assert.Equal(t, typegraph.KindMap, removed.Kind)
	assert.False(t, arena.Contains(idx))
	assert.Nil(t, arena.Get(idx))
}

func TestArenaStaleHandleAfterReuse(t *testing.T) {
	t.Parallel()

	arena := typegraph.NewTypeArena()

	first := arena.Insert(typegraph.ArrayType(arena.Primitive(typegraph.KindInt)))
	arena.Remove(first)

	// The freed slot is reused under a new generation.
	second := arena.Insert(typegraph.ArrayType(arena.Primitive(typegraph.KindBool)))
	require.True(t, arena.Contains(second))

	assert.False(t, arena.Contains(first), "stale handle must not resolve to the new occupant")
	assert.Nil(t, arena.Get(first))
}

func TestArenaPrimitiveSingletons(t *testing.T) {
	t.Parallel()

	arena := typegraph.NewTypeArena()

	kinds := []typegraph.Kind{
		typegraph.KindInt,
		typegraph.KindFloat,
		typegraph.KindBool,
		typegraph.KindString,
		typegraph.KindDate,
		typegraph.KindUUID,
		typegraph.KindNull,
		typegraph.KindMissing,
		typegraph.KindAny,
	}

	seen := make(map[typegraph.ArenaIndex]struct{}, len(kinds))

	for _, k := range kinds {
		idx := arena.Primitive(k)
		require.True(t, arena.Contains(idx))
		assert.Equal(t, k, arena.Get(idx).Kind)

		// Repeated lookups return the same slot.
		assert.Equal(t, idx, arena.Primitive(k))

		_, dup := seen[idx]
		assert.False(t, dup, "primitive slots must be distinct")
		seen[idx] = struct{}{}
	}
}

func TestArenaMustGetPanicsOnDangling(t *testing.T) {
	t.Parallel()

	arena := typegraph.NewTypeArena()

	idx := arena.Insert(typegraph.ArrayType(arena.Primitive(typegraph.KindAny)))
	arena.Remove(idx)

	assert.Panics(t, func() { arena.MustGet(idx) })
}

func TestArenaFindDisjointSets(t *testing.T) {
	t.Parallel()

	arena := typegraph.NewTypeArena()

	newMap := func(fields ...string) typegraph.ArenaIndex {
		m := typegraph.NewMap()
		for _, f := range fields {
			m.Set(f, arena.Primitive(typegraph.KindInt))
		}

		return arena.Insert(typegraph.MapType(m))
	}

	a := newMap("id", "name", "email", "age", "city")
	b := newMap("id", "name", "email", "age", "city", "country")
	c := newMap("completely", "different")

	sets := arena.FindDisjointSets(func(x, y *typegraph.Type) bool {
		return x.Kind == typegraph.KindMap &&
			y.Kind == typegraph.KindMap &&
			x.Map.SimilarTo(y.Map)
	})

	require.Len(t, sets, 1)

	for rep, members := range sets {
		assert.Equal(t, a, rep, "representative is the smallest handle")
		assert.ElementsMatch(t, []typegraph.ArenaIndex{a, b}, members)
		assert.NotContains(t, members, c)
	}
}

func TestMapSimilarTo(t *testing.T) {
	t.Parallel()

	arena := typegraph.NewTypeArena()
	intIdx := arena.Primitive(typegraph.KindInt)

	newMap := func(fields ...string) *typegraph.Map {
		m := typegraph.NewMap()
		for _, f := range fields {
			m.Set(f, intIdx)
		}

		return m
	}

	tcs := map[string]struct {
		a    *typegraph.Map
		b    *typegraph.Map
		want bool
	}{
		"identical": {
			a:    newMap("x", "y"),
			b:    newMap("x", "y"),
			want: true,
		},
		"four of five shared": {
			// Tversky 4/6 does not clear the bar.
			a:    newMap("a", "b", "c", "d", "e"),
			b:    newMap("a", "b", "c", "d", "f"),
			want: false,
		},
		"five of six shared": {
			// Tversky 5/7 does not clear 0.8 either.
			a:    newMap("a", "b", "c", "d", "e", "f"),
			b:    newMap("a", "b", "c", "d", "e", "g"),
			want: false,
		},
		"subset": {
			// 5/(5+0+1) > 0.8.
			a:    newMap("a", "b", "c", "d", "e"),
			b:    newMap("a", "b", "c", "d", "e", "f"),
			want: true,
		},
		"disjoint": {
			a:    newMap("x"),
			b:    newMap("y"),
			want: false,
		},
		"both empty": {
			a:    newMap(),
			b:    newMap(),
			want: false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.a.SimilarTo(tc.b))
			assert.Equal(t, tc.want, tc.b.SimilarTo(tc.a))
		})
	}
}
