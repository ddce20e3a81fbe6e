package tts

import (
	"fmt"
	"sort"
	"sync"

	"mediaforge/internal/services"
)

// Builder constructs an engine on first use. Construction may probe local
// companions or validate credentials and is allowed to fail.
type Builder func() (Engine, error)

// Registry lazily constructs engines and caches the survivors. A failed
// construction is never cached, so a retry after fixing configuration (for
// example starting the VOICEVOX companion) can succeed.
type Registry struct {
	mu       sync.Mutex
	builders map[string]Builder
	cache    map[string]Engine
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]Builder),
		cache:    make(map[string]Engine),
	}
}

// Register adds a named engine builder. Re-registering a name replaces the
// builder and drops any cached instance.
func (r *Registry) Register(name string, builder Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[name] = builder
	delete(r.cache, name)
}

// Names returns the registered engine names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the engine for name, constructing it on first use.
func (r *Registry) Get(name string) (Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if engine, ok := r.cache[name]; ok {
		return engine, nil
	}
	builder, ok := r.builders[name]
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "tts", "registry",
			fmt.Sprintf("unknown engine %q", name), nil)
	}
	engine, err := builder()
	if err != nil {
		return nil, services.Wrap(services.ErrProviderUnavailable, "tts", "registry",
			fmt.Sprintf("engine %q unavailable", name), err)
	}
	r.cache[name] = engine
	return engine, nil
}
