// Package profile provides optional runtime profiling for the tmpl command.
//
// Profiling uses [github.com/pkg/profile] and must be enabled at build time
// with the "pprof" build tag:
//
//	go build -tags pprof ./...
//
// Without the tag every operation is a no-op and [Modes] is empty.
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles", Quiet: true}
//	defer p.Start().Stop()
//
// Profile files are written to Path with names matching the mode, such as
// cpu.pprof or mem.pprof. The command exposes the same settings as flags:
//
//	tmpl --pprof-mode cpu --pprof-dir ./profiles render page.tmpl
//
// The default output directory is the pprof subdirectory of the user cache
// directory, for example $XDG_CACHE_HOME/tmpl/pprof.
//
// # Analyzing Profile Data
//
//	go tool pprof ./tmpl ./profiles/cpu.pprof
//	go tool pprof -http=: ./profiles/cpu.pprof
//
// Builds with the tag also register the [net/http/pprof] handlers.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
