package router

import "sync"

// Descriptor is the access-control metadata of one navigable route.
type Descriptor struct {
	Name         string
	Title        string
	RequireAuth  bool
	RequireAdmin bool
}

// Registry maps route names to descriptors. Registration normally happens
// once per name at startup; re-registering overwrites (last write wins).
type Registry struct {
	mu     sync.RWMutex
	routes map[string]Descriptor
}

func NewRegistry() *Registry {
	return &Registry{routes: make(map[string]Descriptor)}
}

// Register inserts or overwrites the descriptor for name.
func (r *Registry) Register(name string, d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.Name = name
	r.routes[name] = d
}

// Lookup returns the descriptor for name, if registered.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.routes[name]
	return d, ok
}
