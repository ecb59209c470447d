package pygen

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/jsonschema-go/jsonschema"

	"go.jacobcolvin.com/typelift/typegraph"
)

// JSONSchema emits the inferred type graph as a JSON Schema (Draft 7)
// document. Dominant types become $defs entries referenced by $ref; the
// rest are inlined.
type JSONSchema struct {
	Title string
	ID    string
}

// WriteOutput implements [Target]. The schema document goes into body.
func (j JSONSchema) WriteOutput(s *typegraph.Schema, _, body, _ *strings.Builder) error {
	c := &schemaConverter{
		schema: s,
		namer:  newNamer(s),
		named:  make(map[typegraph.ArenaIndex]struct{}),
	}

	for _, i := range s.Dominant() {
		c.named[i] = struct{}{}
	}

	root := c.convert(s.Root, true)
	root.Schema = "http://json-schema.org/draft-07/schema#"
	root.Title = j.Title
	root.ID = j.ID

	if len(c.defs) > 0 {
		root.Defs = c.defs
	}

	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling schema: %w", err)
	}

	body.Write(out)
	body.WriteString("\n")

	return nil
}

type schemaConverter struct {
	schema *typegraph.Schema
	namer  *namer
	named  map[typegraph.ArenaIndex]struct{}
	defs   map[string]*jsonschema.Schema
}

// convert renders the type under i. Named types are rendered once into
// $defs and referenced everywhere, except at their own definition site
// (including the document root).
func (c *schemaConverter) convert(i typegraph.ArenaIndex, atDefSite bool) *jsonschema.Schema {
	if _, ok := c.named[i]; ok && !atDefSite {
		name := c.namer.name(i)

		if _, done := c.defs[name]; !done {
			if c.defs == nil {
				c.defs = make(map[string]*jsonschema.Schema)
			}

			// Reserve the slot first so cyclic references terminate.
			c.defs[name] = nil
			c.defs[name] = c.convert(i, true)
		}

		return &jsonschema.Schema{Ref: "#/$defs/" + name}
	}

	t := c.schema.Arena.MustGet(i)

	switch t.Kind {
	case typegraph.KindMap:
		return c.convertMap(t.Map)
	case typegraph.KindArray:
		return &jsonschema.Schema{
			Type:  "array",
			Items: c.convert(t.Elem, false),
		}
	case typegraph.KindUnion:
		return c.convertUnion(t.Union)
	case typegraph.KindInt:
		return &jsonschema.Schema{Type: "integer"}
	case typegraph.KindFloat:
		return &jsonschema.Schema{Type: "number"}
	case typegraph.KindBool:
		return &jsonschema.Schema{Type: "boolean"}
	case typegraph.KindString:
		return &jsonschema.Schema{Type: "string"}
	case typegraph.KindDate:
		return &jsonschema.Schema{Type: "string", Format: "date-time"}
	case typegraph.KindUUID:
		return &jsonschema.Schema{Type: "string", Format: "uuid"}
	case typegraph.KindNull:
		return &jsonschema.Schema{Type: "null"}
	default:
		// Missing outside a field union and Any both validate everything.
		return &jsonschema.Schema{}
	}
}

func (c *schemaConverter) convertMap(m *typegraph.Map) *jsonschema.Schema {
	out := &jsonschema.Schema{Type: "object"}
	if m.Len() == 0 {
		return out
	}

	out.Properties = make(map[string]*jsonschema.Schema, m.Len())

	missing := c.schema.Arena.Primitive(typegraph.KindMissing)

	m.Fields(func(name string, t typegraph.ArenaIndex) {
		out.Properties[name] = c.convert(t, false)
		out.PropertyOrder = append(out.PropertyOrder, name)

		// A field is required unless some contributing record lacked it.
		ft := c.schema.Arena.MustGet(t)
		if ft.Kind != typegraph.KindUnion || !ft.Union.Has(missing) {
			out.Required = append(out.Required, name)
		}
	})

	return out
}

func (c *schemaConverter) convertUnion(u *typegraph.Union) *jsonschema.Schema {
	missing := c.schema.Arena.Primitive(typegraph.KindMissing)

	var alternatives []*jsonschema.Schema

	for _, m := range u.Members() {
		// Absence is expressed through the parent's required list.
		if m == missing {
			continue
		}

		alternatives = append(alternatives, c.convert(m, false))
	}

	switch len(alternatives) {
	case 0:
		return &jsonschema.Schema{}
	case 1:
		return alternatives[0]
	default:
		return &jsonschema.Schema{AnyOf: alternatives}
	}
}
