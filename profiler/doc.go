// Package profiler wires runtime/pprof profiling into a CLI via
// [github.com/spf13/pflag] flags.
package profiler
