// Package profile provides optional runtime profiling for the streamscore
// command.
//
// Profiling is backed by [github.com/pkg/profile] and compiled in only with
// the "pprof" build tag. Without it, [Profiler.Start] returns a no-op
// controller and [Modes] is empty.
//
// # Modes
//
// When built with the pprof tag, [Modes] reports the supported modes:
// allocs, block, clock, cpu, goroutine, heap, mem, mutex, thread and trace.
// An unrecognized mode disables profiling.
//
// # Usage
//
//	ctrl := profile.Make(
//	    profile.WithMode("cpu"),
//	    profile.WithPath("/tmp/profiles"),
//	).Start()
//	defer ctrl.Stop()
//
// From the command line:
//
//	go build -tags pprof ./...
//	streamscore --pprof-mode cpu --pprof-dir ./profiles solve input.txt
//	go tool pprof -http=: ./profiles/cpu.pprof
//
// Profile files are named after the mode (for example, cpu.pprof). The
// default output directory is "pprof" under the user cache directory for
// streamscore.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
