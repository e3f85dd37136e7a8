package hal

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hyalite/mediacopy/internal/model"
)

// Registry holds the registered copy-engine implementations and resolves the
// one to use for a selected engine.
type Registry struct {
	mu      sync.RWMutex
	engines map[model.Engine]CopyEngine
}

// NewRegistry creates an empty engine registry.
func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[model.Engine]CopyEngine),
	}
}

// Register adds an engine implementation to the registry under its own name.
func (r *Registry) Register(e CopyEngine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[e.Name()] = e
}

// Resolve returns the implementation for the given engine. Returns an error if
// no implementation is registered.
func (r *Registry) Resolve(engine model.Engine) (CopyEngine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.engines[engine]
	if !ok {
		return nil, fmt.Errorf("engine %q is not registered", engine)
	}
	return e, nil
}

// Available reports which engine slots have a registered implementation,
// as a capability set seed: an engine the hardware (or wiring) lacks can
// never be capable.
func (r *Registry) Available() model.CapabilitySet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, vebox := r.engines[model.EngineVebox]
	_, blt := r.engines[model.EngineBlt]
	_, render := r.engines[model.EngineRender]
	return model.CapabilitySet{Vebox: vebox, Blt: blt, Render: render}
}

// List returns the names of all registered engines, sorted for a stable API
// response.
func (r *Registry) List() []model.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]model.Engine, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
