package infer

import (
	"fmt"

	"go.jacobcolvin.com/typelift/typegraph"
)

// Union merges the given handles into a single handle: maps are combined
// field-wise, arrays element-wise, and primitives through a fixed lattice
// (Int is absorbed by Float; Date and UUID collapse to String when mixed
// with each other or with String). Fields absent from some contributing
// maps gain a Missing alternative.
//
// Nested unions are flattened; the first union slot encountered is reused
// as the output slot so outstanding references to it stay valid. Every
// other consumed slot is disposed through [typegraph.Store.RemoveInFavorOf]
// toward the slot that replaces it.
func Union(arena typegraph.Store, types []typegraph.ArenaIndex) typegraph.ArenaIndex {
	u := &unioner{arena: arena}

	return u.union(types)
}

type unioner struct {
	arena typegraph.Store
}

func (u *unioner) get(i typegraph.ArenaIndex) *typegraph.Type {
	t := u.arena.Get(i)
	if t == nil {
		panic(fmt.Sprintf("infer: union over dangling handle %s", i))
	}

	return t
}

func (u *unioner) union(types []typegraph.ArenaIndex) typegraph.ArenaIndex {
	var (
		unionHints    typegraph.NameHints
		retainedUnion typegraph.ArenaIndex
		flat          []typegraph.ArenaIndex
	)

	// Flatten nested unions to a fixed point, accumulating their hints.
	// The first union slot is kept as the output slot; its contents are
	// replaced by a placeholder until the collapse step writes it back.
	queue := append([]typegraph.ArenaIndex(nil), types...)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]

		t := u.get(i)
		if t.Kind != typegraph.KindUnion {
			flat = append(flat, i)

			continue
		}

		un := t.Union
		unionHints.Merge(un.NameHints)

		if retainedUnion.IsZero() {
			retainedUnion = i
			*t = typegraph.Primitive(typegraph.KindAny)
		} else {
			u.arena.RemoveInFavorOf(i, retainedUnion)
		}

		queue = append(queue, un.Members()...)
	}

	var (
		mapHints    typegraph.NameHints
		retainedMap typegraph.ArenaIndex
		mapCount    int
		fieldOrder  []string
		fieldLists  = make(map[string][]typegraph.ArenaIndex)
		arrayElems  []typegraph.ArenaIndex
		result      indexSet
	)

	for _, i := range flat {
		t := u.get(i)

		switch t.Kind {
		case typegraph.KindMap:
			m := t.Map
			if retainedMap.IsZero() {
				retainedMap = i
				*t = typegraph.Primitive(typegraph.KindAny)
			} else {
				u.arena.RemoveInFavorOf(i, retainedMap)
			}

			mapHints.Merge(m.NameHints)
			mapCount++

			m.Fields(func(name string, c typegraph.ArenaIndex) {
				if _, ok := fieldLists[name]; !ok {
					fieldOrder = append(fieldOrder, name)
				}

				fieldLists[name] = append(fieldLists[name], c)
			})
		case typegraph.KindArray:
			arrayElems = append(arrayElems, t.Elem)
		default:
			// Primitives resolve to their canonical slot.
			result.add(u.arena.Primitive(t.Kind))
		}
	}

	if mapCount > 0 {
		merged := typegraph.NewMap()

		for _, name := range fieldOrder {
			list := fieldLists[name]
			// A field not present in every contributing map is optional.
			if len(list) < mapCount {
				list = append(list, u.arena.Primitive(typegraph.KindMissing))
			}

			merged.Set(name, u.union(list))
		}

		if merged.Len() == 0 {
			result.add(u.arena.Primitive(typegraph.KindAny))
			u.arena.RemoveInFavorOf(retainedMap, u.arena.Primitive(typegraph.KindAny))
		} else {
			merged.NameHints = mapHints
			*u.get(retainedMap) = typegraph.MapType(merged)
			result.add(retainedMap)
		}
	}

	if len(arrayElems) > 0 {
		elem := u.union(arrayElems)
		result.add(u.arena.Insert(typegraph.ArrayType(elem)))
	}

	u.normalize(&result)

	return u.collapse(&result, retainedUnion, unionHints)
}

// normalize applies the primitive lattice to the result set.
func (u *unioner) normalize(result *indexSet) {
	intIdx := u.arena.Primitive(typegraph.KindInt)
	floatIdx := u.arena.Primitive(typegraph.KindFloat)

	// JSON conflates int and float: 1.0 serializes as 1, so a union holding
	// both can only promise float.
	if result.has(intIdx) && result.has(floatIdx) {
		result.remove(intIdx)
	}

	strIdx := u.arena.Primitive(typegraph.KindString)
	dateIdx := u.arena.Primitive(typegraph.KindDate)
	uuidIdx := u.arena.Primitive(typegraph.KindUUID)

	stringish := 0

	for _, i := range []typegraph.ArenaIndex{strIdx, dateIdx, uuidIdx} {
		if result.has(i) {
			stringish++
		}
	}

	// Mixed string shapes mean the shape detection was coincidental.
	if stringish >= 2 {
		result.remove(dateIdx)
		result.remove(uuidIdx)
		result.add(strIdx)
	}
}

// collapse reduces the result set to a single handle, reusing the retained
// union slot when the result is a genuine union and disposing it otherwise.
func (u *unioner) collapse(
	result *indexSet,
	retainedUnion typegraph.ArenaIndex,
	hints typegraph.NameHints,
) typegraph.ArenaIndex {
	switch result.len() {
	case 0:
		anyIdx := u.arena.Primitive(typegraph.KindAny)
		if !retainedUnion.IsZero() {
			u.arena.RemoveInFavorOf(retainedUnion, anyIdx)
		}

		return anyIdx
	case 1:
		only := result.items[0]
		if !retainedUnion.IsZero() {
			u.arena.RemoveInFavorOf(retainedUnion, only)
		}

		return only
	default:
		un := typegraph.NewUnion(result.items...)
		un.NameHints = hints

		if !retainedUnion.IsZero() {
			*u.get(retainedUnion) = typegraph.UnionType(un)

			return retainedUnion
		}

		return u.arena.Insert(typegraph.UnionType(un))
	}
}

// indexSet is an insertion-ordered set of handles.
type indexSet struct {
	items []typegraph.ArenaIndex
	pos   map[typegraph.ArenaIndex]int
}

func (s *indexSet) add(i typegraph.ArenaIndex) {
	if s.pos == nil {
		s.pos = make(map[typegraph.ArenaIndex]int)
	}

	if _, ok := s.pos[i]; ok {
		return
	}

	s.pos[i] = len(s.items)
	s.items = append(s.items, i)
}

func (s *indexSet) has(i typegraph.ArenaIndex) bool {
	_, ok := s.pos[i]

	return ok
}

func (s *indexSet) remove(i typegraph.ArenaIndex) {
	at, ok := s.pos[i]
	if !ok {
		return
	}

	s.items = append(s.items[:at], s.items[at+1:]...)
	delete(s.pos, i)

	for n := at; n < len(s.items); n++ {
		s.pos[s.items[n]] = n
	}
}

func (s *indexSet) len() int {
	return len(s.items)
}
