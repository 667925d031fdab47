package testutil

import (
	"fmt"
	"sync"

	"github.com/vk/splashload/internal/registry"
)

// Instance is what CountingModule factories build.
type Instance struct {
	Class string
	// N is the 1-based construction number for the class.
	N int
}

// CountingModule registers a factory per class and counts constructions.
type CountingModule struct {
	Classes []string
	// Fail makes the factory of the named class return an error.
	Fail map[string]error

	mu     sync.Mutex
	counts map[string]int
}

// NewCountingModule creates a module providing classes.
func NewCountingModule(classes ...string) *CountingModule {
	return &CountingModule{Classes: classes, counts: make(map[string]int)}
}

// Register implements the registry.Module interface.
func (m *CountingModule) Register(r *registry.Registry) {
	for _, class := range m.Classes {
		r.RegisterComponent(class, func() (any, error) {
			if err := m.Fail[class]; err != nil {
				return nil, fmt.Errorf("construct %s: %w", class, err)
			}
			m.mu.Lock()
			defer m.mu.Unlock()
			m.counts[class]++
			return &Instance{Class: class, N: m.counts[class]}, nil
		})
	}
}

// Count returns how many instances of class were built.
func (m *CountingModule) Count(class string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[class]
}
