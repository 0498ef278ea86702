package script

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry maps language names to adapter factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	preludes  map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		preludes:  make(map[string]string),
	}
}

// Register adds a factory under name. Names are case sensitive.
func (r *Registry) Register(name string, factory Factory) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty language name", ErrUnsupportedLanguage)
	}
	if factory == nil {
		return fmt.Errorf("nil factory for language %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateLanguage, name)
	}
	r.factories[name] = factory
	return nil
}

// SetPrelude stores source code that every new adapter for name runs first.
func (r *Registry) SetPrelude(name, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preludes[name] = source
}

// New constructs an adapter for name. The prelude registered for the language,
// if any, is passed through opts. Factory failures are returned as *StartError.
func (r *Registry) New(name string, opts Options) (Adapter, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	prelude := r.preludes[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, name)
	}
	if opts.Prelude == "" {
		opts.Prelude = prelude
	}
	adapter, err := factory(opts)
	if err != nil {
		return nil, &StartError{Language: name, Err: err}
	}
	return adapter, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Languages returns the registered names in sorted order.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
