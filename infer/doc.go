// Package infer builds a [go.jacobcolvin.com/typelift/typegraph.Schema]
// from a JSON or YAML sample document.
//
// [FromBytes] parses a document (YAML being a superset of JSON, both are
// accepted) and walks it recursively: scalars resolve to the canonical
// primitive slots, with ISO 8601 and UUID string shapes detected; objects
// become insertion-ordered maps; arrays union their element types through
// [Union], the merge algebra that combines maps field-wise, arrays
// element-wise, and primitives through a fixed lattice.
//
// [Optimizer] post-processes a schema, collapsing structurally similar maps
// and duplicate unions so that repeated record shapes share one definition
// in the generated output.
//
// The pipeline is single-threaded and total: every document that parses
// produces a schema, and internal invariant violations panic rather than
// surface as errors.
package infer
