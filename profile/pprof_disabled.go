//go:build !pprof

package profile

// Enabled reports whether profiling is compiled in.
const Enabled = false

// Modes returns nil when built without the pprof tag.
func Modes() []string { return nil }

func start(Profiler) Stopper { return nop{} }
