package typegraph

import "fmt"

// Kind identifies the variant held by a [Type].
type Kind uint8

const (
	// KindInvalid is the zero Kind; it never appears in a live arena slot.
	KindInvalid Kind = iota
	// KindMap is a record type with insertion-ordered named fields.
	KindMap
	// KindArray is a homogeneous list with a single element type.
	KindArray
	// KindUnion is an unordered set of alternative types.
	KindUnion
	// KindInt is a JSON number without a fractional part.
	KindInt
	// KindFloat is a JSON number with a fractional part or exponent.
	KindFloat
	// KindBool is a JSON boolean.
	KindBool
	// KindString is a JSON string with no recognized shape.
	KindString
	// KindDate is a JSON string accepted by an ISO 8601 datetime parser.
	KindDate
	// KindUUID is a JSON string accepted by a standard UUID parser.
	KindUUID
	// KindNull is the JSON null value.
	KindNull
	// KindMissing marks a field absent from some records during a union.
	// It only appears inside the value union of a map field.
	KindMissing
	// KindAny is an undetermined type: the element type of an empty array,
	// and the result of unioning maps that have no fields.
	KindAny
)

// IsPrimitive reports whether k is one of the singleton primitive kinds.
func (k Kind) IsPrimitive() bool {
	return k >= KindInt && k <= KindAny
}

func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindArray:
		return "array"
	case KindUnion:
		return "union"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindUUID:
		return "uuid"
	case KindNull:
		return "null"
	case KindMissing:
		return "missing"
	case KindAny:
		return "any"
	}

	return "invalid"
}

// primitiveKinds lists every singleton kind in arena pre-insertion order.
var primitiveKinds = []Kind{
	KindInt, KindFloat, KindBool, KindString, KindDate,
	KindUUID, KindNull, KindMissing, KindAny,
}

// Type is a tagged variant. Exactly one of the payload fields is meaningful,
// selected by Kind: Map for [KindMap], Elem for [KindArray], Union for
// [KindUnion]. Primitive kinds carry no payload.
type Type struct {
	Kind  Kind
	Map   *Map
	Elem  ArenaIndex
	Union *Union
}

// MapType wraps m as a [Type].
func MapType(m *Map) Type {
	return Type{Kind: KindMap, Map: m}
}

// ArrayType returns an array type with the given element type.
func ArrayType(elem ArenaIndex) Type {
	return Type{Kind: KindArray, Elem: elem}
}

// UnionType wraps u as a [Type].
func UnionType(u *Union) Type {
	return Type{Kind: KindUnion, Union: u}
}

// Primitive returns the payload-free type for a primitive kind.
// It panics for composite kinds.
func Primitive(k Kind) Type {
	if !k.IsPrimitive() {
		panic(fmt.Sprintf("typegraph: not a primitive kind: %s", k))
	}

	return Type{Kind: k}
}

// Map is a record type: insertion-ordered named fields plus name hints
// accumulated from the document keys that introduced it.
type Map struct {
	NameHints NameHints

	fields map[string]ArenaIndex
	order  []string
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{fields: make(map[string]ArenaIndex)}
}

// Set adds or replaces a field. New fields keep insertion order.
func (m *Map) Set(name string, t ArenaIndex) {
	if m.fields == nil {
		m.fields = make(map[string]ArenaIndex)
	}

	if _, ok := m.fields[name]; !ok {
		m.order = append(m.order, name)
	}

	m.fields[name] = t
}

// Get returns the type of the named field.
func (m *Map) Get(name string) (ArenaIndex, bool) {
	t, ok := m.fields[name]

	return t, ok
}

// Len returns the number of fields.
func (m *Map) Len() int {
	return len(m.order)
}

// Keys returns the field names in insertion order. The slice is shared;
// callers must not mutate it.
func (m *Map) Keys() []string {
	return m.order
}

// Fields calls fn for each field in insertion order.
func (m *Map) Fields(fn func(name string, t ArenaIndex)) {
	for _, name := range m.order {
		fn(name, m.fields[name])
	}
}

// rewrite replaces every field type with fn(type).
func (m *Map) rewrite(fn func(ArenaIndex) ArenaIndex) {
	for _, name := range m.order {
		m.fields[name] = fn(m.fields[name])
	}
}

// SimilarTo reports whether the Tversky index over the two field-name sets
// exceeds 0.8. Field value types are not considered.
func (m *Map) SimilarTo(other *Map) bool {
	var common int

	for _, name := range m.order {
		if _, ok := other.fields[name]; ok {
			common++
		}
	}

	onlyA := len(m.order) - common
	onlyB := len(other.order) - common

	denom := float64(common + onlyA + onlyB)
	if denom == 0 {
		// Two empty maps carry no structural evidence either way.
		return false
	}

	return float64(common)/denom > 0.8
}

// Union is an unordered set of alternative types. It never contains another
// Union directly; nested unions are flattened on construction.
type Union struct {
	NameHints NameHints

	members map[ArenaIndex]struct{}
}

// NewUnion returns a Union over the given members.
func NewUnion(members ...ArenaIndex) *Union {
	u := &Union{members: make(map[ArenaIndex]struct{}, len(members))}
	for _, m := range members {
		u.members[m] = struct{}{}
	}

	return u
}

// Add inserts a member.
func (u *Union) Add(t ArenaIndex) {
	if u.members == nil {
		u.members = make(map[ArenaIndex]struct{})
	}

	u.members[t] = struct{}{}
}

// Has reports whether t is a member.
func (u *Union) Has(t ArenaIndex) bool {
	_, ok := u.members[t]

	return ok
}

// Len returns the number of members.
func (u *Union) Len() int {
	return len(u.members)
}

// Members returns the member set ordered by handle, so that iteration is
// deterministic across runs.
func (u *Union) Members() []ArenaIndex {
	out := make([]ArenaIndex, 0, len(u.members))
	for m := range u.members {
		out = append(out, m)
	}

	SortIndices(out)

	return out
}

// Equal reports whether the two unions have the same member set.
func (u *Union) Equal(other *Union) bool {
	if len(u.members) != len(other.members) {
		return false
	}

	for m := range u.members {
		if _, ok := other.members[m]; !ok {
			return false
		}
	}

	return true
}

// rewrite replaces every member with fn(member), deduplicating collisions.
func (u *Union) rewrite(fn func(ArenaIndex) ArenaIndex) {
	next := make(map[ArenaIndex]struct{}, len(u.members))
	for m := range u.members {
		next[fn(m)] = struct{}{}
	}

	u.members = next
}
