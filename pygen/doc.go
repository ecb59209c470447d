// Package pygen renders an inferred type graph into static type
// declarations.
//
// Each [Target] consumes a [go.jacobcolvin.com/typelift/typegraph.Schema]
// and writes three buffers: header (imports), body (declarations), and
// additional (trailing notes). [PythonClass] covers the class-based Python
// flavors (dataclasses, pydantic models, class TypedDicts),
// [PythonTypedDict] the functional TypedDict syntax with optional nesting,
// and [JSONSchema] a Draft 7 JSON Schema document.
//
// [Config] integrates target selection with CLI flags via
// [github.com/spf13/pflag] and shell completions via
// [github.com/spf13/cobra].
package pygen
