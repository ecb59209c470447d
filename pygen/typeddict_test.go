package pygen_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/typelift/pygen"
	"go.jacobcolvin.com/typelift/stringtest"
	"go.jacobcolvin.com/typelift/typegraph"
)

func TestPythonTypedDictNested(t *testing.T) {
	t.Parallel()

	s := mustInfer(t, `{"user": {"id": 1}}`, "Root")

	got := generate(t, pygen.PythonTypedDict{NestWhenPossible: true}, s)

	want := stringtest.Block(
		"from typing import TypedDict",
		"",
		`Root = TypedDict("Root", {"user": TypedDict("User", {"id": int})})`,
	)

	require.Equal(t, want, got)
}

func TestPythonTypedDictFlat(t *testing.T) {
	t.Parallel()

	s := mustInfer(t, `{"a": {"id": 1}, "b": {"id": 2}}`, "Root")

	got := generate(t, pygen.PythonTypedDict{}, s)

	// Without nesting, every map is named; definitions come deepest-first
	// so references resolve without quoting.
	want := stringtest.Block(
		"from typing import TypedDict",
		"",
		`A = TypedDict("A", {"id": int})`,
		"",
		`B = TypedDict("B", {"id": int})`,
		"",
		`Root = TypedDict("Root", {"a": A, "b": B})`,
	)

	require.Equal(t, want, got)
}

func TestPythonTypedDictOptionalField(t *testing.T) {
	t.Parallel()

	s := mustInfer(t, `[{"x": 1}, {"x": 2, "y": 3}]`, "")

	got := generate(t, pygen.PythonTypedDict{NestWhenPossible: true}, s)

	want := stringtest.Block(
		"from typing_extensions import TypedDict, NotRequired",
		"",
		`UnnamedType1 = TypedDict("UnnamedType1", {"x": int, "y": NotRequired[int]})`,
		"",
		"# NotRequired needs Python >= 3.11 (PEP 655); on older interpreters,",
		"# install typing_extensions and import from there.",
	)

	require.Equal(t, want, got)
}

func TestPythonTypedDictRecursiveForwardReference(t *testing.T) {
	t.Parallel()

	// Hand-built recursive schema: Node{next: Union{None, Node}}.
	arena := typegraph.NewTypeArena()

	node := typegraph.NewMap()
	node.NameHints.Add("Node")
	nodeIdx := arena.Insert(typegraph.MapType(node))

	u := typegraph.NewUnion(arena.Primitive(typegraph.KindNull), nodeIdx)
	uIdx := arena.Insert(typegraph.UnionType(u))
	node.Set("next", uIdx)

	s := &typegraph.Schema{Arena: arena, Root: nodeIdx}

	got := generate(t, pygen.PythonTypedDict{Quote: pygen.QuoteSingle}, s)

	want := stringtest.Block(
		"from typing import TypedDict, Union",
		"",
		`Node = TypedDict('Node', {'next': Union[None, 'Node']})`,
		"",
		"# Union[X, Y] can be written as X | Y on Python >= 3.10 (PEP 604).",
	)

	require.Equal(t, want, got)
}

func TestPythonTypedDictAliasUnions(t *testing.T) {
	t.Parallel()

	s := mustInfer(t, `{"value": [1, "x"]}`, "Root")

	got := generate(t, pygen.PythonTypedDict{AliasUnions: true}, s)

	want := stringtest.Block(
		"from typing import TypedDict, List, Union",
		"",
		"UnnamedType1 = Union[int, str]",
		"",
		`Root = TypedDict("Root", {"value": List[UnnamedType1]})`,
		"",
		"# Union[X, Y] can be written as X | Y on Python >= 3.10 (PEP 604).",
	)

	require.Equal(t, want, got)
}
