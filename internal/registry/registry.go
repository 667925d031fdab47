package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Factory builds a new component instance without arguments.
type Factory func() (any, error)

// Module is the interface that all compiled-in modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the component factories and the set of linked classes for a
// single application instance.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	linked    map[string]struct{}
}

// New creates and initializes a new Registry instance.
func New(modules ...Module) *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		linked:    make(map[string]struct{}),
	}
	for _, mod := range modules {
		mod.Register(r)
	}
	return r
}

// RegisterComponent registers the constructor for a class. Registering the
// same class twice is a programmer error and panics.
func (r *Registry) RegisterComponent(class string, factory Factory) {
	if factory == nil {
		panic(fmt.Sprintf("component factory for class '%s' is nil", class))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[class]; exists {
		panic(fmt.Sprintf("component with class '%s' already registered", class))
	}
	slog.Debug("Registering component.", "class", class)
	r.factories[class] = factory
}

// Lookup returns the factory registered for class.
func (r *Registry) Lookup(class string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[class]
	return f, ok
}

// Link marks class as loaded. It fails when no factory is registered.
func (r *Registry) Link(class string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[class]; !ok {
		return fmt.Errorf("no component registered for class '%s'", class)
	}
	r.linked[class] = struct{}{}
	return nil
}

// IsLinked reports whether class has been loaded.
func (r *Registry) IsLinked(class string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.linked[class]
	return ok
}

// New constructs a fresh instance of a linked class.
func (r *Registry) New(class string) (any, error) {
	r.mu.RLock()
	factory, registered := r.factories[class]
	_, linked := r.linked[class]
	r.mu.RUnlock()

	if !registered {
		return nil, fmt.Errorf("no component registered for class '%s'", class)
	}
	if !linked {
		return nil, fmt.Errorf("component class '%s' has not been loaded", class)
	}
	return factory()
}

// Classes returns all registered class identifiers, sorted.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	classes := make([]string, 0, len(r.factories))
	for class := range r.factories {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}
