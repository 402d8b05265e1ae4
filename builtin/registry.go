package builtin

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ardnew/tmpl/lang"
)

// generation hands out registry cache keys. Zero is reserved for the
// parser's empty registry.
var generation atomic.Uint64

// Registry is a concurrency-safe set of transforms keyed by name.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Transform
	key    atomic.Uint64
}

// New returns a registry holding ts. Later duplicates replace earlier ones.
func New(ts ...*Transform) *Registry {
	r := &Registry{byName: make(map[string]*Transform, len(ts))}
	r.Register(ts...)

	return r
}

// Default returns the shared registry of built-in transforms.
// Transforms registered into it are visible to every user.
var Default = sync.OnceValue(func() *Registry { return New(All()...) })

// Register adds ts, replacing any transforms with the same names.
func (r *Registry) Register(ts ...*Transform) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range ts {
		if t != nil {
			r.byName[t.name] = t
		}
	}

	r.key.Store(generation.Add(1))
}

// Lookup returns the transform with the given name.
func (r *Registry) Lookup(name string) (*Transform, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byName[name]

	return t, ok
}

// Resolve implements [lang.Registry].
func (r *Registry) Resolve(name string) (lang.Transform, bool) {
	t, ok := r.Lookup(name)
	if !ok {
		return nil, false
	}

	return t, true
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// CacheKey identifies the current contents of the registry. It changes on
// every call to [Registry.Register], which lets the parser share trees
// between parses that resolve names identically.
func (r *Registry) CacheKey() uint64 { return r.key.Load() }
