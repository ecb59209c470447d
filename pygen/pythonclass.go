package pygen

import (
	"strings"

	"go.jacobcolvin.com/typelift/typegraph"
)

// ClassKind selects the class flavor emitted by [PythonClass].
type ClassKind int

const (
	// Dataclass decorates classes with dataclasses.dataclass.
	Dataclass ClassKind = iota
	// DataclassJSON additionally decorates with dataclasses_json for JSON
	// (de)serialization support.
	DataclassJSON
	// PydanticModel derives classes from pydantic.BaseModel.
	PydanticModel
	// PydanticDataclass decorates with pydantic.dataclasses.dataclass.
	PydanticDataclass
	// TypedDictClass derives classes from typing.TypedDict (PEP 589
	// class-based syntax).
	TypedDictClass
)

// PythonClass emits one class per map, in class syntax.
type PythonClass struct {
	Kind ClassKind
	// AliasUnions emits a named type alias for every union with more than
	// one alternative besides None and absence.
	AliasUnions bool
	Indent      Indent
}

// WriteOutput implements [Target].
func (p PythonClass) WriteOutput(s *typegraph.Schema, header, body, _ *strings.Builder) error {
	indent := p.Indent
	if indent == "" {
		indent = DefaultIndent
	}

	r := &classRenderer{
		schema:  s,
		opts:    p,
		indent:  indent,
		namer:   newNamer(s),
		missing: s.Arena.Primitive(typegraph.KindMissing),
		null:    s.Arena.Primitive(typegraph.KindNull),
	}

	for _, i := range s.IterTopdown() {
		t := s.Arena.MustGet(i)

		switch t.Kind {
		case typegraph.KindMap:
			r.writeClass(body, i, t.Map)
		case typegraph.KindUnion:
			if p.AliasUnions && r.nonTrivial(t.Union) {
				body.WriteString(r.namer.name(i) + " = " + r.memberExpr(t.Union) + "\n\n")
			}
		}
	}

	r.writeHeader(header)

	return nil
}

type classRenderer struct {
	schema  *typegraph.Schema
	opts    PythonClass
	indent  Indent
	namer   *namer
	imports importSet
	missing typegraph.ArenaIndex
	null    typegraph.ArenaIndex

	hasClass bool
}

func (r *classRenderer) writeClass(body *strings.Builder, i typegraph.ArenaIndex, m *typegraph.Map) {
	r.hasClass = true

	switch r.opts.Kind {
	case Dataclass, PydanticDataclass:
		body.WriteString("@dataclass\n")
	case DataclassJSON:
		body.WriteString("@dataclass_json\n@dataclass\n")
	}

	body.WriteString("class " + r.namer.name(i))

	switch r.opts.Kind {
	case PydanticModel:
		body.WriteString("(BaseModel)")
	case TypedDictClass:
		body.WriteString("(TypedDict)")
	}

	body.WriteString(":\n")

	if m.Len() == 0 {
		body.WriteString(string(r.indent) + "pass\n")
	}

	m.Fields(func(name string, t typegraph.ArenaIndex) {
		body.WriteString(string(r.indent) + name + ": " + r.typeExpr(t) + "\n")
	})

	body.WriteString("\n")
}

// nonTrivial reports whether the union has at least two alternatives after
// setting aside None and absence.
func (r *classRenderer) nonTrivial(u *typegraph.Union) bool {
	n := u.Len()

	if u.Has(r.null) {
		n--
	}

	if u.Has(r.missing) {
		n--
	}

	return n > 1
}

func (r *classRenderer) typeExpr(i typegraph.ArenaIndex) string {
	t := r.schema.Arena.MustGet(i)

	switch t.Kind {
	case typegraph.KindMap:
		return r.namer.name(i)
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

func (r *classRenderer) unionExpr(i typegraph.ArenaIndex, u *typegraph.Union) string {
	// Per PEP 655, NotRequired marks optional TypedDict items; other class
	// flavors spell absence as an explicit Missing alternative.
	notRequired := r.opts.Kind == TypedDictClass && u.Has(r.missing) && u.Len() > 1

	var inner string

	if r.opts.AliasUnions && r.nonTrivial(u) {
		name := r.namer.name(i)
		if u.Has(r.null) {
			// None stays at the reference site, outside the alias.
			r.imports.addTyping("Union")

			inner = "Union[" + name + ", None]"
		} else {
			inner = name
		}
	} else {
		inner = r.memberExpr(u)
	}

	if notRequired {
		r.imports.addTyping("NotRequired")

		return "NotRequired[" + inner + "]"
	}

	return inner
}

// memberExpr renders the union's member set, either as a lone type or as
// Union[...] over the deterministically ordered members.
func (r *classRenderer) memberExpr(u *typegraph.Union) string {
	var exprs []string

	for _, m := range u.Members() {
		if m == r.missing && r.opts.Kind == TypedDictClass && u.Len() > 1 {
			continue
		}

		if m == r.null && r.opts.AliasUnions && r.nonTrivial(u) {
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

func (r *classRenderer) writeHeader(header *strings.Builder) {
	if r.hasClass {
		header.WriteString("from __future__ import annotations\n")

		switch r.opts.Kind {
		case Dataclass:
			header.WriteString("from dataclasses import dataclass\n")
		case DataclassJSON:
			header.WriteString("from dataclasses import dataclass\n")
			header.WriteString("from dataclasses_json import dataclass_json\n")
		case PydanticModel:
			header.WriteString("from pydantic import BaseModel\n")
		case PydanticDataclass:
			header.WriteString("from pydantic.dataclasses import dataclass\n")
		case TypedDictClass:
			r.imports.addTyping("TypedDict")
		}
	}

	r.imports.writeTyping(header)
	r.imports.writeValueImports(header)
}
