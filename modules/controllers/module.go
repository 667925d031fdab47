// Package controllers provides MainController, the component that routes
// named actions of the host application to their handlers.
package controllers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vk/splashload/internal/registry"
)

// Class is the component class this module provides.
const Class = "MainController"

// Action handles one named command.
type Action func(args ...string) error

// MainController maps action names to handlers.
type MainController struct {
	mu      sync.RWMutex
	actions map[string]Action
}

// NewMainController creates a controller with no actions.
func NewMainController() *MainController {
	return &MainController{actions: make(map[string]Action)}
}

// Handle binds name to fn, replacing any earlier binding.
func (c *MainController) Handle(name string, fn Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actions[name] = fn
}

// Dispatch runs the action bound to name.
func (c *MainController) Dispatch(name string, args ...string) error {
	c.mu.RLock()
	fn, ok := c.actions[name]
	c.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no action bound to '%s'", name)
	}
	return fn(args...)
}

// Actions lists bound action names, sorted.
func (c *MainController) Actions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.actions))
	for name := range c.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the MainController factory.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponent(Class, func() (any, error) {
		return NewMainController(), nil
	})
}
