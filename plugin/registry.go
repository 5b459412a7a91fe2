package plugin

import (
	"sync"

	"github.com/animus-ai/animus/core"
)

// Factory is the single entry point a plugin package exposes to the
// registry. It must be safe to call more than once; the loader validates
// whatever it returns.
type Factory func() *core.Plugin

// Registry is a capability keyed lookup table populated at startup by
// explicit registration calls. It replaces dynamic module scanning: a host
// registers every plugin package it links in, and the loader resolves name
// references against it. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds a factory to a plugin name. Registering the same name again
// replaces the previous factory.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// RegisterPlugin binds an already constructed plugin under its own name.
func (r *Registry) RegisterPlugin(p *core.Plugin) {
	if p == nil {
		return
	}
	r.Register(p.Name, func() *core.Plugin { return p })
}

// Lookup resolves a name to a factory. It tries the exact name, then the
// normalized form, then compares normalized forms of all registered names so
// a scoped registration satisfies a short reference and vice versa.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.factories[name]; ok {
		return f, true
	}
	if f, ok := r.factories[Normalize(name)]; ok {
		return f, true
	}
	want := Normalize(name)
	for registered, f := range r.factories {
		if Normalize(registered) == want {
			return f, true
		}
	}
	return nil, false
}

// Names returns the registered plugin names in unspecified order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}
