package router

import (
	"sync"

	"github.com/refi-rr/crypto-dss/internal/client/view"
)

// loader caches view construction per route name. Each factory runs at most
// once; concurrent activations of the same route share the single
// pending-or-resolved entry instead of double-loading.
type loader struct {
	mu        sync.Mutex
	factories map[string]view.Factory
	entries   map[string]*loadEntry
}

type loadEntry struct {
	once sync.Once
	v    view.View
	err  error
}

func newLoader() *loader {
	return &loader{
		factories: make(map[string]view.Factory),
		entries:   make(map[string]*loadEntry),
	}
}

// mount binds a route name to its view factory.
func (l *loader) mount(name string, f view.Factory) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.factories[name] = f
	delete(l.entries, name)
}

// load returns the route's view, constructing it on first use.
func (l *loader) load(name string) (view.View, error) {
	l.mu.Lock()
	f, ok := l.factories[name]
	if !ok {
		l.mu.Unlock()
		return nil, errViewNotMounted
	}
	entry, ok := l.entries[name]
	if !ok {
		entry = &loadEntry{}
		l.entries[name] = entry
	}
	l.mu.Unlock()

	entry.once.Do(func() {
		entry.v, entry.err = f()
		if entry.err == nil && entry.v == nil {
			entry.err = errViewNotMounted
		}
	})
	return entry.v, entry.err
}
