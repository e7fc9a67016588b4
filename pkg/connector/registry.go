package connector

import (
	"sort"
	"sync"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// Registry is a thread-safe name -> (spec, implementation) store, modeled on
// a simple name-keyed capability registry with a read-write lock guarding a
// map. A Connector implementation is optional: the spec alone can be
// registered for lens validation and planning without a live adapter wired
// in (e.g. offline lens linting).
type Registry struct {
	mu    sync.RWMutex
	specs map[string]model.ConnectorSpec
	impls map[string]Connector
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		specs: make(map[string]model.ConnectorSpec),
		impls: make(map[string]Connector),
	}
}

// Register adds or replaces a connector's spec and, optionally, its live
// implementation (impl may be nil).
func (r *Registry) Register(spec model.ConnectorSpec, impl Connector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs[spec.Name] = spec
	if impl != nil {
		r.impls[spec.Name] = impl
	}
}

// Has reports whether name is registered. Satisfies pkg/lens.ConnectorRegistry.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.specs[name]
	return ok
}

// Get returns the spec registered under name. Satisfies pkg/plan.ConnectorCatalog.
func (r *Registry) Get(name string) (model.ConnectorSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[name]
	return spec, ok
}

// Impl returns the live Connector implementation registered for name, if any.
func (r *Registry) Impl(name string) (Connector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	impl, ok := r.impls[name]
	return impl, ok
}

// All returns every registered spec, sorted by name for deterministic
// iteration.
func (r *Registry) All() []model.ConnectorSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.ConnectorSpec, 0, len(r.specs))
	for _, s := range r.specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
