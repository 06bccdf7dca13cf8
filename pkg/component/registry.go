package component

import (
	"sync"

	"github.com/lookatitude/irene/pkg/ireneerrors"
)

// Factory constructs a new Provider instance for a given kind. Concrete
// provider packages expose a Register(reg) function that the runtime
// calls at startup to record their factory.
type Factory func() Provider

// Registry is the dynamic, injected registry of provider kinds per
// component name. It is owned by the runtime rather than held in a
// global mutable variable; each running Irene instance owns exactly
// one Registry.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]map[string]Factory // component -> provider name -> factory
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]map[string]Factory)}
}

// Register records a provider kind's factory under a component name. Called
// by each provider package's own Register function.
func (r *Registry) Register(component, provider string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.factories[component] == nil {
		r.factories[component] = make(map[string]Factory)
	}
	r.factories[component][provider] = factory
}

// Kinds returns the provider names registered for a component.
func (r *Registry) Kinds(component string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.factories[component]))
	for name := range r.factories[component] {
		kinds = append(kinds, name)
	}
	return kinds
}

// Components returns every component name that has at least one
// registered provider.
func (r *Registry) Components() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	return out
}

// New constructs a fresh Provider instance for (component, provider).
func (r *Registry) New(component, provider string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factories, ok := r.factories[component]
	if !ok {
		return nil, ireneerrors.New("component.Registry.New", ireneerrors.CodeComponentInit,
			"no providers registered for component "+component, nil)
	}
	factory, ok := factories[provider]
	if !ok {
		return nil, ireneerrors.New("component.Registry.New", ireneerrors.CodeComponentInit,
			"provider "+provider+" not registered for component "+component, nil)
	}
	return factory(), nil
}
