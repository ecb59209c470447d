package profiler

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/pflag"
)

// Profiler manages runtime profiling for CLI applications. Inference over
// large sample documents is allocation-heavy, so CPU and heap profiles are
// the profiles that matter here.
//
// Create instances with [New], register CLI flags with
// [Profiler.RegisterFlags], and bracket the work between [Profiler.Start]
// and [Profiler.Stop]. A path left empty disables that profile.
type Profiler struct {
	cpuFile *os.File

	// Output paths (empty = disabled).
	CPUProfile    string
	HeapProfile   string
	AllocsProfile string

	// MemProfileRate is the sampling rate in bytes per sample.
	MemProfileRate int
}

// New creates a new [Profiler] with all profiles disabled.
func New() Profiler {
	return Profiler{}
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (p *Profiler) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&p.CPUProfile, "cpu-profile", "", "write CPU profile to file")
	flags.StringVar(&p.HeapProfile, "heap-profile", "", "write heap profile to file")
	flags.StringVar(&p.AllocsProfile, "allocs-profile", "", "write allocs profile to file")
	flags.IntVar(&p.MemProfileRate, "mem-profile-rate", 524288, "memory profile rate (bytes per sample)")
}

// Start configures the memory sampling rate and starts CPU profiling if
// enabled. Call [Profiler.Stop] when the work is done to write snapshot
// profiles.
func (p *Profiler) Start() error {
	runtime.MemProfileRate = p.MemProfileRate

	if p.CPUProfile == "" {
		return nil
	}

	f, err := os.Create(p.CPUProfile) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("creating CPU profile: %w", err)
	}

	err = pprof.StartCPUProfile(f)
	if err != nil {
		_ = f.Close()

		return fmt.Errorf("starting CPU profile: %w", err)
	}

	p.cpuFile = f

	return nil
}

// Stop stops CPU profiling and writes all enabled snapshot profiles.
func (p *Profiler) Stop() error {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		err := p.cpuFile.Close()
		p.cpuFile = nil

		if err != nil {
			return fmt.Errorf("closing CPU profile: %w", err)
		}
	}

	for _, snap := range []struct {
		name string
		path string
	}{
		{"heap", p.HeapProfile},
		{"allocs", p.AllocsProfile},
	} {
		if snap.path == "" {
			continue
		}

		err := p.writeSnapshot(snap.name, snap.path)
		if err != nil {
			return fmt.Errorf("write %s profile: %w", snap.name, err)
		}
	}

	return nil
}

func (p *Profiler) writeSnapshot(name, path string) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return fmt.Errorf("unknown profile: %s", name)
	}

	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return err
	}

	err = prof.WriteTo(f, 0)
	if err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}
