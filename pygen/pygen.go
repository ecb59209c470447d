package pygen

import (
	"strings"

	"go.jacobcolvin.com/typelift/typegraph"
)

// Output holds the three buffers an emitter writes: header (imports),
// body (type declarations), and additional (trailing notes).
type Output struct {
	Header     string
	Body       string
	Additional string
}

// Render joins the non-empty sections with blank lines.
func (o Output) Render() string {
	var parts []string

	for _, s := range []string{o.Header, o.Body, o.Additional} {
		s = strings.TrimRight(s, "\n")
		if s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, "\n\n") + "\n"
}

// Target renders a schema into a target dialect.
type Target interface {
	WriteOutput(s *typegraph.Schema, header, body, additional *strings.Builder) error
}

// Generate runs t over s and collects the buffers.
func Generate(t Target, s *typegraph.Schema) (Output, error) {
	var header, body, additional strings.Builder

	err := t.WriteOutput(s, &header, &body, &additional)
	if err != nil {
		return Output{}, err
	}

	return Output{
		Header:     header.String(),
		Body:       body.String(),
		Additional: additional.String(),
	}, nil
}

// Indent is the per-level indentation string of generated Python.
type Indent string

// Tab indents with a tab character.
const Tab Indent = "\t"

// Spaces returns an Indent of n spaces.
func Spaces(n int) Indent {
	return Indent(strings.Repeat(" ", n))
}

// DefaultIndent is four spaces, the conventional Python indentation.
var DefaultIndent = Spaces(4)

// Quote is the string quoting style of generated Python.
type Quote string

const (
	// QuoteSingle quotes with ' characters.
	QuoteSingle Quote = "'"
	// QuoteDouble quotes with " characters.
	QuoteDouble Quote = `"`
)

// wrap returns s surrounded by the quote character.
func (q Quote) wrap(s string) string {
	return string(q) + s + string(q)
}
