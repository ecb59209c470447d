package infer

import (
	"errors"
	"fmt"

	"github.com/gobuffalo/flect"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/iancoleman/strcase"

	"go.jacobcolvin.com/typelift/typegraph"
)

// ErrInvalidDocument indicates input that does not parse as JSON or YAML.
var ErrInvalidDocument = errors.New("invalid document")

// FromBytes parses a JSON or YAML sample document and infers its schema.
// rootHint optionally names the root type. Parse failure is the only error;
// every document that parses produces a schema.
func FromBytes(data []byte, rootHint string) (*typegraph.Schema, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	var body ast.Node
	if len(file.Docs) > 0 {
		// Only the first document of a multi-document stream is used.
		body = file.Docs[0].Body
	}

	return FromNode(body, rootHint), nil
}

// FromNode infers a schema from a parsed document node. A nil node is
// treated as null.
func FromNode(node ast.Node, rootHint string) *typegraph.Schema {
	in := &inferrer{
		arena:   typegraph.NewTypeArena(),
		anchors: buildAnchorMap(node),
	}

	return &typegraph.Schema{
		Arena: in.arena,
		Root:  in.walk(node, rootHint),
	}
}

type inferrer struct {
	arena   *typegraph.TypeArena
	anchors map[string]ast.Node
}

// walk recursively infers the type of node, with hint naming the composite
// type the value would become.
func (in *inferrer) walk(node ast.Node, hint string) typegraph.ArenaIndex {
	node = resolveAlias(node, in.anchors)
	node = unwrapNode(node)

	if node == nil {
		return in.arena.Primitive(typegraph.KindNull)
	}

	switch n := node.(type) {
	case *ast.NullNode:
		return in.arena.Primitive(typegraph.KindNull)
	case *ast.BoolNode:
		return in.arena.Primitive(typegraph.KindBool)
	case *ast.IntegerNode:
		return in.arena.Primitive(typegraph.KindInt)
	case *ast.FloatNode, *ast.InfinityNode, *ast.NanNode:
		return in.arena.Primitive(typegraph.KindFloat)
	case *ast.StringNode:
		return in.arena.Primitive(stringKind(n.Value))
	case *ast.LiteralNode:
		return in.arena.Primitive(stringKind(n.Value.Value))
	case *ast.SequenceNode:
		return in.walkSequence(n, hint)
	case *ast.MappingNode:
		return in.walkMapping(n.Values, hint)
	case *ast.MappingValueNode:
		return in.walkMapping([]*ast.MappingValueNode{n}, hint)
	}

	return in.arena.Primitive(typegraph.KindAny)
}

func (in *inferrer) walkSequence(seq *ast.SequenceNode, hint string) typegraph.ArenaIndex {
	elemHint := singularHint(hint)

	members := make([]typegraph.ArenaIndex, 0, len(seq.Values))
	for _, v := range seq.Values {
		members = append(members, in.walk(v, elemHint))
	}

	// An empty sequence unions to Any.
	inner := Union(in.arena, members)

	return in.arena.Insert(typegraph.ArrayType(inner))
}

func (in *inferrer) walkMapping(values []*ast.MappingValueNode, hint string) typegraph.ArenaIndex {
	m := typegraph.NewMap()
	m.NameHints.Add(hint)

	for _, mvn := range values {
		if _, ok := mvn.Key.(*ast.MergeKeyNode); ok {
			in.mergeKey(mvn, m)

			continue
		}

		key := keyString(mvn.Key)
		m.Set(key, in.walk(mvn.Value, strcase.ToCamel(key)))
	}

	return in.arena.Insert(typegraph.MapType(m))
}

// mergeKey inlines the fields of a YAML merge key (<<) target. Fields
// already present on the receiving map win over merged ones.
func (in *inferrer) mergeKey(mvn *ast.MappingValueNode, m *typegraph.Map) {
	value := resolveAlias(mvn.Value, in.anchors)
	value = unwrapNode(value)

	targets := []ast.Node{value}
	if seq, ok := value.(*ast.SequenceNode); ok {
		targets = seq.Values
	}

	for _, target := range targets {
		target = resolveAlias(target, in.anchors)
		target = unwrapNode(target)

		mn, ok := target.(*ast.MappingNode)
		if !ok {
			continue
		}

		for _, inner := range mn.Values {
			key := keyString(inner.Key)
			if _, exists := m.Get(key); exists {
				continue
			}

			m.Set(key, in.walk(inner.Value, strcase.ToCamel(key)))
		}
	}
}

// singularHint derives the name hint for elements of an array named hint:
// a hint that is already singular (with a distinct plural form) is kept,
// otherwise it is singularized, so maps inside "users" are hinted "User".
func singularHint(hint string) string {
	if hint == "" {
		return ""
	}

	singular := flect.Singularize(hint)
	if singular == hint && flect.Pluralize(hint) != hint {
		return hint
	}

	return singular
}

// keyString extracts the plain key text, unquoting string keys.
func keyString(key ast.MapKeyNode) string {
	if sn, ok := key.(*ast.StringNode); ok {
		return sn.Value
	}

	return key.String()
}

// buildAnchorMap collects every anchor definition reachable from node.
func buildAnchorMap(node ast.Node) map[string]ast.Node {
	anchors := make(map[string]ast.Node)
	if node != nil {
		ast.Walk(&anchorVisitor{anchors: anchors}, node)
	}

	return anchors
}

type anchorVisitor struct {
	anchors map[string]ast.Node
}

// Visit implements the [ast.Visitor] interface.
func (v *anchorVisitor) Visit(node ast.Node) ast.Visitor {
	if anchor, ok := node.(*ast.AnchorNode); ok {
		v.anchors[anchor.Name.String()] = anchor.Value
	}

	return v
}

// resolveAlias resolves alias nodes through the anchor map. Unresolvable
// aliases are treated as null.
func resolveAlias(node ast.Node, anchors map[string]ast.Node) ast.Node {
	alias, ok := node.(*ast.AliasNode)
	if !ok {
		return node
	}

	if resolved, found := anchors[alias.Value.String()]; found {
		return resolved
	}

	return nil
}

// unwrapNode resolves tag and anchor wrappers to the underlying value node.
func unwrapNode(node ast.Node) ast.Node {
	for {
		switch n := node.(type) {
		case *ast.TagNode:
			node = n.Value
		case *ast.AnchorNode:
			node = n.Value
		default:
			return node
		}
	}
}
