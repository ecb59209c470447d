package infer

import (
	"github.com/google/uuid"
	"github.com/relvacode/iso8601"

	"go.jacobcolvin.com/typelift/typegraph"
)

// stringKind classifies a string scalar by shape: ISO 8601 dates and
// datetimes become Date, canonical 8-4-4-4-12 UUIDs become UUID, and
// everything else stays String.
func stringKind(s string) typegraph.Kind {
	if isUUID(s) {
		return typegraph.KindUUID
	}

	if isDate(s) {
		return typegraph.KindDate
	}

	return typegraph.KindString
}

func isUUID(s string) bool {
	// uuid.Parse also accepts URN and braced forms; the length check pins
	// the canonical hyphenated layout.
	if len(s) != 36 {
		return false
	}

	_, err := uuid.Parse(s)

	return err == nil
}

func isDate(s string) bool {
	if len(s) < 10 || s[4] != '-' {
		return false
	}

	_, err := iso8601.ParseString(s)

	return err == nil
}
