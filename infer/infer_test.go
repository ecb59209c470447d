package infer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/typelift/infer"
	"go.jacobcolvin.com/typelift/typegraph"
)

func mustInfer(t *testing.T, doc string) *typegraph.Schema {
	t.Helper()

	s, err := infer.FromBytes([]byte(doc), "")
	require.NoError(t, err)

	return s
}

func fieldType(t *testing.T, s *typegraph.Schema, m *typegraph.Map, name string) *typegraph.Type {
	t.Helper()

	idx, ok := m.Get(name)
	require.True(t, ok, "field %s", name)

	return s.Arena.MustGet(idx)
}

func TestInferPrimitives(t *testing.T) {
	t.Parallel()

	s := mustInfer(t, `{
		"null": null,
		"bool": true,
		"int": 123,
		"negint": -456,
		"float": 1.0123,
		"string": "hello"
	}`)

	root := s.Arena.MustGet(s.Root)
	require.Equal(t, typegraph.KindMap, root.Kind)

	// Field order follows the document.
	assert.Equal(t,
		[]string{"null", "bool", "int", "negint", "float", "string"},
		root.Map.Keys())

	assert.Equal(t, typegraph.KindNull, fieldType(t, s, root.Map, "null").Kind)
	assert.Equal(t, typegraph.KindBool, fieldType(t, s, root.Map, "bool").Kind)
	assert.Equal(t, typegraph.KindInt, fieldType(t, s, root.Map, "int").Kind)
	assert.Equal(t, typegraph.KindInt, fieldType(t, s, root.Map, "negint").Kind)
	assert.Equal(t, typegraph.KindFloat, fieldType(t, s, root.Map, "float").Kind)
	assert.Equal(t, typegraph.KindString, fieldType(t, s, root.Map, "string").Kind)
}

func TestInferNoConflationAcrossFields(t *testing.T) {
	t.Parallel()

	// Number conflation happens only within unions; separate fields keep
	// their own kinds.
	s := mustInfer(t, `{"a": 1, "b": 1.5}`)

	root := s.Arena.MustGet(s.Root)
	require.Equal(t, typegraph.KindMap, root.Kind)

	assert.Equal(t, typegraph.KindInt, fieldType(t, s, root.Map, "a").Kind)
	assert.Equal(t, typegraph.KindFloat, fieldType(t, s, root.Map, "b").Kind)
}

func TestInferMixedArray(t *testing.T) {
	t.Parallel()

	s := mustInfer(t, `[1, 1.5, true]`)

	root := s.Arena.MustGet(s.Root)
	require.Equal(t, typegraph.KindArray, root.Kind)

	elem := s.Arena.MustGet(root.Elem)
	require.Equal(t, typegraph.KindUnion, elem.Kind)
	assert.ElementsMatch(t,
		[]typegraph.Kind{typegraph.KindFloat, typegraph.KindBool},
		memberKinds(s.Arena, elem.Union))
}

func TestInferOptionalField(t *testing.T) {
	t.Parallel()

	s := mustInfer(t, `[{"x": 1}, {"x": 1, "y": 2}]`)

	root := s.Arena.MustGet(s.Root)
	require.Equal(t, typegraph.KindArray, root.Kind)

	elem := s.Arena.MustGet(root.Elem)
	require.Equal(t, typegraph.KindMap, elem.Kind)

	assert.Equal(t, typegraph.KindInt, fieldType(t, s, elem.Map, "x").Kind)

	y := fieldType(t, s, elem.Map, "y")
	require.Equal(t, typegraph.KindUnion, y.Kind)
	assert.ElementsMatch(t,
		[]typegraph.Kind{typegraph.KindInt, typegraph.KindMissing},
		memberKinds(s.Arena, y.Union))
}

func TestInferNullableMissingField(t *testing.T) {
	t.Parallel()

	s := mustInfer(t, `[{"name": "a"}, {"name": "b", "addr": null}]`)

	elem := s.Arena.MustGet(s.Arena.MustGet(s.Root).Elem)
	require.Equal(t, typegraph.KindMap, elem.Kind)

	assert.Equal(t, typegraph.KindString, fieldType(t, s, elem.Map, "name").Kind)

	addr := fieldType(t, s, elem.Map, "addr")
	require.Equal(t, typegraph.KindUnion, addr.Kind)
	assert.ElementsMatch(t,
		[]typegraph.Kind{typegraph.KindNull, typegraph.KindMissing},
		memberKinds(s.Arena, addr.Union))
}

func TestInferStringShapes(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		doc  string
		want typegraph.Kind
	}{
		"datetime": {
			doc:  `"2020-01-02T03:04:05Z"`,
			want: typegraph.KindDate,
		},
		"datetime with offset": {
			doc:  `"2020-01-02T03:04:05+08:00"`,
			want: typegraph.KindDate,
		},
		"plain date": {
			doc:  `"2020-01-02"`,
			want: typegraph.KindDate,
		},
		"uuid": {
			doc:  `"9b8c6f18-3d1f-4b6e-8a5a-0f6d5e4c3b2a"`,
			want: typegraph.KindUUID,
		},
		"uppercase uuid": {
			doc:  `"9B8C6F18-3D1F-4B6E-8A5A-0F6D5E4C3B2A"`,
			want: typegraph.KindUUID,
		},
		"plain string": {
			doc:  `"hello world"`,
			want: typegraph.KindString,
		},
		"almost a date": {
			doc:  `"2020-13-45whatever"`,
			want: typegraph.KindString,
		},
		"uuid without hyphens": {
			doc:  `"9b8c6f183d1f4b6e8a5a0f6d5e4c3b2a"`,
			want: typegraph.KindString,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := mustInfer(t, tc.doc)
			assert.Equal(t, tc.want, s.Arena.MustGet(s.Root).Kind)
		})
	}
}

func TestInferDateMixedWithStringCollapses(t *testing.T) {
	t.Parallel()

	s := mustInfer(t, `["2020-01-02T03:04:05Z", "hello"]`)

	root := s.Arena.MustGet(s.Root)
	require.Equal(t, typegraph.KindArray, root.Kind)
	assert.Equal(t, arenaKind(t, s, root.Elem), typegraph.KindString)
}

func arenaKind(t *testing.T, s *typegraph.Schema, i typegraph.ArenaIndex) typegraph.Kind {
	t.Helper()

	return s.Arena.MustGet(i).Kind
}

func TestInferEmptyComposites(t *testing.T) {
	t.Parallel()

	s := mustInfer(t, `{"emptyarray": [], "emptyobject": {}}`)

	root := s.Arena.MustGet(s.Root)
	require.Equal(t, typegraph.KindMap, root.Kind)

	arr := fieldType(t, s, root.Map, "emptyarray")
	require.Equal(t, typegraph.KindArray, arr.Kind)
	assert.Equal(t, typegraph.KindAny, arenaKind(t, s, arr.Elem))

	obj := fieldType(t, s, root.Map, "emptyobject")
	require.Equal(t, typegraph.KindMap, obj.Kind)
	assert.Equal(t, 0, obj.Map.Len())
}

func TestInferSingularNameHints(t *testing.T) {
	t.Parallel()

	s, err := infer.FromBytes([]byte(`{"users": [{"name": "a"}]}`), "Root")
	require.NoError(t, err)

	root := s.Arena.MustGet(s.Root)
	require.Equal(t, typegraph.KindMap, root.Kind)
	assert.True(t, root.Map.NameHints.Contains("Root"))

	users := fieldType(t, s, root.Map, "users")
	require.Equal(t, typegraph.KindArray, users.Kind)

	user := s.Arena.MustGet(users.Elem)
	require.Equal(t, typegraph.KindMap, user.Kind)
	assert.True(t, user.Map.NameHints.Contains("User"),
		"maps inside a plural array key are hinted with the singular")
}

func TestInferUnionOfMapAndNull(t *testing.T) {
	t.Parallel()

	s := mustInfer(t, `[{"field1": 1.25}, null]`)

	root := s.Arena.MustGet(s.Root)
	require.Equal(t, typegraph.KindArray, root.Kind)

	elem := s.Arena.MustGet(root.Elem)
	require.Equal(t, typegraph.KindUnion, elem.Kind)
	assert.ElementsMatch(t,
		[]typegraph.Kind{typegraph.KindMap, typegraph.KindNull},
		memberKinds(s.Arena, elem.Union))
}

func TestInferYAMLDocument(t *testing.T) {
	t.Parallel()

	s := mustInfer(t, "users:\n  - name: a\n    age: 3\n  - name: b\n")

	root := s.Arena.MustGet(s.Root)
	require.Equal(t, typegraph.KindMap, root.Kind)

	users := fieldType(t, s, root.Map, "users")
	require.Equal(t, typegraph.KindArray, users.Kind)

	user := s.Arena.MustGet(users.Elem)
	require.Equal(t, typegraph.KindMap, user.Kind)

	age := fieldType(t, s, user.Map, "age")
	require.Equal(t, typegraph.KindUnion, age.Kind)
	assert.ElementsMatch(t,
		[]typegraph.Kind{typegraph.KindInt, typegraph.KindMissing},
		memberKinds(s.Arena, age.Union))
}

func TestInferYAMLAnchorsAndMergeKeys(t *testing.T) {
	t.Parallel()

	doc := `
base: &base
  id: 1
derived:
  <<: *base
  name: x
`

	s := mustInfer(t, doc)

	root := s.Arena.MustGet(s.Root)
	require.Equal(t, typegraph.KindMap, root.Kind)

	derived := fieldType(t, s, root.Map, "derived")
	require.Equal(t, typegraph.KindMap, derived.Kind)

	assert.Equal(t, typegraph.KindInt, fieldType(t, s, derived.Map, "id").Kind)
	assert.Equal(t, typegraph.KindString, fieldType(t, s, derived.Map, "name").Kind)
}

func TestInferInvalidDocument(t *testing.T) {
	t.Parallel()

	_, err := infer.FromBytes([]byte(`{"a": 1`), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, infer.ErrInvalidDocument)
}

func TestInferReachability(t *testing.T) {
	t.Parallel()

	s := mustInfer(t, `{
		"users": [{"id": 1, "tags": ["a", "b"]}, {"id": 2}],
		"count": 3
	}`)

	for _, i := range s.IterTopdown() {
		assert.True(t, s.Arena.Contains(i), "reachable handle %s must be live", i)
	}
}
