package pygen

import (
	"strings"

	"go.jacobcolvin.com/typelift/typegraph"
)

// PythonTypedDict emits functional-syntax TypedDict assignments, optionally
// nesting single-reference types inline at their only use site.
type PythonTypedDict struct {
	Quote Quote
	// AliasUnions emits a named type alias for every union with more than
	// one alternative besides None and absence.
	AliasUnions bool
	// NestWhenPossible only names the dominant types (the root and anything
	// referenced more than once) and inlines the rest.
	NestWhenPossible bool
}

// WriteOutput implements [Target].
func (p PythonTypedDict) WriteOutput(s *typegraph.Schema, header, body, additional *strings.Builder) error {
	quote := p.Quote
	if quote == "" {
		quote = QuoteDouble
	}

	r := &dictRenderer{
		schema:  s,
		opts:    p,
		quote:   quote,
		namer:   newNamer(s),
		missing: s.Arena.Primitive(typegraph.KindMissing),
		null:    s.Arena.Primitive(typegraph.KindNull),
	}

	var named []typegraph.ArenaIndex

	if p.NestWhenPossible {
		named = s.Dominant()
	} else {
		for _, i := range s.IterTopdown() {
			switch s.Arena.MustGet(i).Kind {
			case typegraph.KindMap, typegraph.KindUnion:
				named = append(named, i)
			}
		}
	}

	r.named = make(map[typegraph.ArenaIndex]struct{}, len(named))
	for _, i := range named {
		r.named[i] = struct{}{}
	}

	r.referenceable = make(map[typegraph.ArenaIndex]struct{}, len(named))

	// Emit definitions deepest-first so later ones can reference earlier
	// ones by bare name; anything not yet defined is referenced quoted.
	for n := len(named) - 1; n >= 0; n-- {
		i := named[n]
		t := s.Arena.MustGet(i)

		switch t.Kind {
		case typegraph.KindMap:
			body.WriteString(r.namer.name(i) + " = " + r.mapExpr(i, t.Map) + "\n\n")
			r.referenceable[i] = struct{}{}
		case typegraph.KindUnion:
			if p.AliasUnions && r.nonTrivial(t.Union) {
				body.WriteString(r.namer.name(i) + " = " + r.memberExpr(t.Union, true) + "\n\n")
				r.referenceable[i] = struct{}{}
			}
		}
	}

	r.imports.writeTyping(header)
	r.imports.writeValueImports(header)

	if r.imports.typing["Union"] {
		additional.WriteString("# Union[X, Y] can be written as X | Y on Python >= 3.10 (PEP 604).\n")
	}

	if r.imports.needsExtensions() {
		additional.WriteString("# NotRequired needs Python >= 3.11 (PEP 655); on older interpreters,\n")
		additional.WriteString("# install typing_extensions and import from there.\n")
	}

	return nil
}

type dictRenderer struct {
	schema        *typegraph.Schema
	opts          PythonTypedDict
	quote         Quote
	namer         *namer
	imports       importSet
	named         map[typegraph.ArenaIndex]struct{}
	referenceable map[typegraph.ArenaIndex]struct{}
	missing       typegraph.ArenaIndex
	null          typegraph.ArenaIndex
}

func (r *dictRenderer) isNamed(i typegraph.ArenaIndex) bool {
	_, ok := r.named[i]

	return ok
}

func (r *dictRenderer) nonTrivial(u *typegraph.Union) bool {
	n := u.Len()

	if u.Has(r.null) {
		n--
	}

	if u.Has(r.missing) {
		n--
	}

	return n > 1
}

// aliased reports whether references to this union go through a named alias.
func (r *dictRenderer) aliased(i typegraph.ArenaIndex, u *typegraph.Union) bool {
	return r.opts.AliasUnions && r.nonTrivial(u) && r.isNamed(i)
}

// nameRef renders a reference to a named definition, quoting it as a forward
// reference when the definition has not been emitted yet.
func (r *dictRenderer) nameRef(i typegraph.ArenaIndex) string {
	name := r.namer.name(i)
	if _, ok := r.referenceable[i]; ok {
		return name
	}

	return r.quote.wrap(name)
}

// mapExpr renders the functional TypedDict constructor for a map.
func (r *dictRenderer) mapExpr(i typegraph.ArenaIndex, m *typegraph.Map) string {
	r.imports.addTyping("TypedDict")

	var sb strings.Builder

	sb.WriteString("TypedDict(" + r.quote.wrap(r.namer.name(i)) + ", {")

	first := true

	m.Fields(func(name string, t typegraph.ArenaIndex) {
		if !first {
			sb.WriteString(", ")
		}

		first = false

		sb.WriteString(r.quote.wrap(name) + ": " + r.typeExpr(t))
	})

	sb.WriteString("})")

	return sb.String()
}

func (r *dictRenderer) typeExpr(i typegraph.ArenaIndex) string {
	t := r.schema.Arena.MustGet(i)

	switch t.Kind {
	case typegraph.KindMap:
		if r.isNamed(i) {
			return r.nameRef(i)
		}

		return r.mapExpr(i, t.Map)
	case typegraph.KindArray:
		r.imports.addTyping("List")

		return "List[" + r.typeExpr(t.Elem) + "]"
	case typegraph.KindUnion:
		return r.unionExpr(i, t.Union)
	case typegraph.KindInt:
		return "int"
	case typegraph.KindFloat:
		return "float"
	case typegraph.KindBool:
		return "bool"
	case typegraph.KindString:
		return "str"
	case typegraph.KindDate:
		r.imports.datetime = true

		return "datetime"
	case typegraph.KindUUID:
		r.imports.uuid = true

		return "UUID"
	case typegraph.KindNull:
		return "None"
	case typegraph.KindMissing:
		r.imports.addTyping("Missing")

		return "Missing"
	default:
		r.imports.addTyping("Any")

		return "Any"
	}
}

func (r *dictRenderer) unionExpr(i typegraph.ArenaIndex, u *typegraph.Union) string {
	notRequired := u.Has(r.missing) && u.Len() > 1

	var inner string

	if r.aliased(i, u) {
		if u.Has(r.null) {
			// None stays at the reference site, outside the alias.
			r.imports.addTyping("Union")

			inner = "Union[" + r.nameRef(i) + ", None]"
		} else {
			inner = r.nameRef(i)
		}
	} else {
		inner = r.memberExpr(u, false)
	}

	if notRequired {
		r.imports.addTyping("NotRequired")

		return "NotRequired[" + inner + "]"
	}

	return inner
}

// memberExpr renders the union's member set. Absence is expressed by the
// NotRequired wrapper, so Missing is skipped unless it stands alone; in
// alias bodies None is additionally lifted out to the reference sites.
func (r *dictRenderer) memberExpr(u *typegraph.Union, aliasBody bool) string {
	var exprs []string

	for _, m := range u.Members() {
		if m == r.missing && u.Len() > 1 {
			continue
		}

		if m == r.null && aliasBody {
			continue
		}

		exprs = append(exprs, r.typeExpr(m))
	}

	if len(exprs) == 1 {
		return exprs[0]
	}

	r.imports.addTyping("Union")

	return "Union[" + strings.Join(exprs, ", ") + "]"
}
