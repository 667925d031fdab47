// Package env_vars provides the Environment component, a snapshot of the
// process environment taken when the component is constructed.
package env_vars

import (
	"os"
	"sort"
	"strings"

	"github.com/vk/splashload/internal/registry"
)

// Class is the component class this module provides.
const Class = "Environment"

// Environment is an immutable snapshot of environment variables.
type Environment struct {
	All map[string]string
}

// Snapshot captures the current process environment.
func Snapshot() *Environment {
	return FromList(os.Environ())
}

// FromList builds an Environment from KEY=VALUE pairs. Entries without '='
// are ignored.
func FromList(environ []string) *Environment {
	envMap := make(map[string]string, len(environ))
	for _, e := range environ {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 {
			envMap[pair[0]] = pair[1]
		}
	}
	return &Environment{All: envMap}
}

// Get returns the value of key.
func (e *Environment) Get(key string) (string, bool) {
	v, ok := e.All[key]
	return v, ok
}

// WithPrefix returns the sorted keys starting with prefix.
func (e *Environment) WithPrefix(prefix string) []string {
	var keys []string
	for k := range e.All {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the Environment factory.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponent(Class, func() (any, error) {
		return Snapshot(), nil
	})
}
