// Package typegraph holds the arena-based type graph that schema inference
// builds and emitters consume.
//
// A [Type] is a tagged variant: records ([Map]), homogeneous lists
// ([ArrayType]), alternative sets ([Union]), and nine primitive singletons.
// Every type lives in a [TypeArena] under a stable generational handle
// ([ArenaIndex]); composite types reference their children by handle, never
// by value, so the graph can share substructure freely.
//
// A [Schema] pairs an arena with its root handle and offers the two
// traversals emitters need: [Schema.IterTopdown] enumerates every reachable
// handle once, and [Schema.Dominant] selects the composites that deserve a
// named definition.
//
// [MergeView] supports the optimizer: it redirects handle lookups through a
// union-find while structurally similar types are merged, then rewrites all
// outstanding references on [MergeView.Close] so the arena is never observed
// with a dangling handle.
package typegraph
