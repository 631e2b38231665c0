// Package profile starts optional runtime profiling of a calc process.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	calc --pprof-mode cpu eval -s expressions.txt
//	go tool pprof -http=: ~/.cache/calc/pprof/cpu.pprof
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op
// [Stopper]. With the tag, the modes of [github.com/pkg/profile] are
// available and the package also registers the [net/http/pprof] handlers.
package profile

// Tag is the build tag that enables profiling. It also names the
// subdirectory profiles are written to by default.
const Tag = "pprof"

// Stopper ends a profiling session and flushes its output.
type Stopper interface {
	Stop()
}

// Profiler describes one profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unknown mode disables profiling.
	Mode string
	// Dir is the directory profiles are written to. Empty selects the
	// current directory.
	Dir string
	// Quiet suppresses the profiler's own start and stop messages.
	Quiet bool
}

// Start begins profiling. Both Start and the returned Stopper are always
// safe to call, whether or not profiling is compiled in or enabled.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return nop{}
	}

	return start(p)
}

type nop struct{}

func (nop) Stop() {}
