package lang

// Transform is a handle to a named output transform. The parser only
// records the handle; applying it is up to the evaluator.
type Transform interface {
	Name() string
}

// Registry resolves transform names at parse time.
type Registry interface {
	Resolve(name string) (Transform, bool)
}

// Lister is implemented by registries that can enumerate their names.
// It is used to suggest alternatives for unknown transforms.
type Lister interface {
	Names() []string
}

// RegistryFunc adapts a function to the [Registry] interface.
type RegistryFunc func(name string) (Transform, bool)

// Resolve calls f(name).
func (f RegistryFunc) Resolve(name string) (Transform, bool) { return f(name) }

// cacheKeyer is implemented by registries whose resolution results may be
// shared between parses. The key must change whenever the set of handles
// the registry returns changes.
type cacheKeyer interface {
	CacheKey() uint64
}

// emptyRegistry knows no transforms.
type emptyRegistry struct{}

func (emptyRegistry) Resolve(string) (Transform, bool) { return nil, false }
func (emptyRegistry) Names() []string                  { return nil }
func (emptyRegistry) CacheKey() uint64                 { return 0 }
