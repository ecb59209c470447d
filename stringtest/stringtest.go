// Package stringtest helps tests construct expected multi-line output with
// explicit line endings.
package stringtest

import "strings"

// JoinLF joins multiple strings with LF line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"line1",
//		"line2",
//	) // -> "line1\nline2"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}

// Block joins multiple strings with LF line endings and appends a trailing
// LF, matching the shape of emitted file content.
func Block(ss ...string) string {
	return JoinLF(ss...) + "\n"
}
