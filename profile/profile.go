package profile

// Stopper ends a profiling session.
type Stopper interface {
	Stop()
}

// Profiler describes a profiling session.
type Profiler struct {
	// Mode names the profile to collect. See [Modes].
	Mode string
	// Path is the output directory. Empty selects a temporary directory.
	Path string
	// Quiet suppresses the profiler's own log output.
	Quiet bool
}

// Start begins profiling and returns the handle that ends it.
//
// An empty or unsupported Mode, or a build without the pprof tag, yields a
// no-op handle. Both Start and Stop are always safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
