package typegraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/typelift/typegraph"
)

// buildShared constructs a schema where one map is referenced from two
// fields of the root:
//
//	root{left: Shared, right: Shared, tag: string}
func buildShared(t *testing.T) (*typegraph.Schema, typegraph.ArenaIndex) {
	t.Helper()

	arena := typegraph.NewTypeArena()

	shared := typegraph.NewMap()
	shared.Set("id", arena.Primitive(typegraph.KindInt))
	sharedIdx := arena.Insert(typegraph.MapType(shared))

	root := typegraph.NewMap()
	root.Set("left", sharedIdx)
	root.Set("right", sharedIdx)
	root.Set("tag", arena.Primitive(typegraph.KindString))
	rootIdx := arena.Insert(typegraph.MapType(root))

	return &typegraph.Schema{Arena: arena, Root: rootIdx}, sharedIdx
}

func TestIterTopdownVisitsReachableOnce(t *testing.T) {
	t.Parallel()

	s, sharedIdx := buildShared(t)

	visited := s.IterTopdown()

	require.NotEmpty(t, visited)
	assert.Equal(t, s.Root, visited[0], "traversal starts at the root")

	counts := make(map[typegraph.ArenaIndex]int)
	for _, i := range visited {
		counts[i]++
		assert.True(t, s.Arena.Contains(i))
	}

	assert.Equal(t, 1, counts[sharedIdx], "shared nodes appear exactly once")
	assert.Equal(t, 1, counts[s.Root])
}

func TestDominantSharedMap(t *testing.T) {
	t.Parallel()

	s, sharedIdx := buildShared(t)

	dominant := s.Dominant()

	assert.Contains(t, dominant, s.Root, "the root is always dominant")
	assert.Contains(t, dominant, sharedIdx, "multiply referenced types are dominant")
}

func TestDominantSingleReferenceInlined(t *testing.T) {
	t.Parallel()

	arena := typegraph.NewTypeArena()

	inner := typegraph.NewMap()
	inner.Set("id", arena.Primitive(typegraph.KindInt))
	innerIdx := arena.Insert(typegraph.MapType(inner))

	root := typegraph.NewMap()
	root.Set("user", innerIdx)
	rootIdx := arena.Insert(typegraph.MapType(root))

	s := &typegraph.Schema{Arena: arena, Root: rootIdx}

	dominant := s.Dominant()

	assert.Contains(t, dominant, rootIdx)
	assert.NotContains(t, dominant, innerIdx, "singly referenced types may be inlined")
}

func TestDominantRootArrayOfMaps(t *testing.T) {
	t.Parallel()

	arena := typegraph.NewTypeArena()

	inner := typegraph.NewMap()
	inner.Set("id", arena.Primitive(typegraph.KindInt))
	innerIdx := arena.Insert(typegraph.MapType(inner))

	rootIdx := arena.Insert(typegraph.ArrayType(innerIdx))

	s := &typegraph.Schema{Arena: arena, Root: rootIdx}

	assert.Contains(t, s.Dominant(), innerIdx,
		"the inner map of a root array anchors the output")
}

func TestDominantRootArrayOfPrimitives(t *testing.T) {
	t.Parallel()

	arena := typegraph.NewTypeArena()
	rootIdx := arena.Insert(typegraph.ArrayType(arena.Primitive(typegraph.KindInt)))

	s := &typegraph.Schema{Arena: arena, Root: rootIdx}

	assert.Empty(t, s.Dominant(), "a root array over primitives needs no named definition")
}
