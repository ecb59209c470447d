package pygen

import "strings"

// typingOrder fixes the emission order of typing imports so generated
// headers are reproducible.
var typingOrder = []string{"TypedDict", "Any", "List", "Union", "NotRequired", "Missing"}

// importSet accumulates the imports a rendering pass turns out to need.
type importSet struct {
	typing   map[string]bool
	datetime bool
	uuid     bool
}

func (im *importSet) addTyping(name string) {
	if im.typing == nil {
		im.typing = make(map[string]bool)
	}

	im.typing[name] = true
}

// needsExtensions reports whether any requested name only exists in
// typing_extensions on older interpreters.
func (im *importSet) needsExtensions() bool {
	return im.typing["NotRequired"] || im.typing["Missing"]
}

// writeTyping writes the "from typing import ..." line, switching to
// typing_extensions when required. Writes nothing if no names were used.
func (im *importSet) writeTyping(header *strings.Builder) {
	var names []string

	for _, name := range typingOrder {
		if im.typing[name] {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return
	}

	module := "typing"
	if im.needsExtensions() {
		module = "typing_extensions"
	}

	header.WriteString("from " + module + " import " + strings.Join(names, ", ") + "\n")
}

// writeValueImports writes the datetime and uuid imports when needed.
func (im *importSet) writeValueImports(header *strings.Builder) {
	if im.datetime {
		header.WriteString("from datetime import datetime\n")
	}

	if im.uuid {
		header.WriteString("from uuid import UUID\n")
	}
}
