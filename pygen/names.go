package pygen

import (
	"fmt"
	"strings"

	"go.jacobcolvin.com/typelift/typegraph"
)

// namer assigns one stable rendered name to every composite type of a
// schema. Names derive from accumulated name hints joined with "Or";
// hintless composites are numbered in first-visit order, and colliding
// names gain a numeric suffix. Names are stable within a run only.
type namer struct {
	names map[typegraph.ArenaIndex]string
}

func newNamer(s *typegraph.Schema) *namer {
	n := &namer{names: make(map[typegraph.ArenaIndex]string)}

	taken := make(map[string]int)
	anonymous := 0

	for _, i := range s.IterTopdown() {
		t := s.Arena.MustGet(i)

		var hints typegraph.NameHints

		switch t.Kind {
		case typegraph.KindMap:
			hints = t.Map.NameHints
		case typegraph.KindUnion:
			hints = t.Union.NameHints
		default:
			continue
		}

		base := identifier(hints.String())
		if base == "" {
			anonymous++
			base = fmt.Sprintf("UnnamedType%d", anonymous)
		}

		name := base
		if c := taken[base]; c > 0 {
			name = fmt.Sprintf("%s%d", base, c)
		}

		taken[base]++
		n.names[i] = name
	}

	return n
}

func (n *namer) name(i typegraph.ArenaIndex) string {
	name, ok := n.names[i]
	if !ok {
		panic(fmt.Sprintf("pygen: no name assigned for %s", i))
	}

	return name
}

// identifier strips characters that cannot appear in a Python class name.
func identifier(s string) string {
	var sb strings.Builder

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if sb.Len() > 0 {
				sb.WriteRune(r)
			}
		}
	}

	return sb.String()
}
