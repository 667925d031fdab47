// Package widgets provides MyToolBtn, a toolbar button component.
package widgets

import (
	"sync/atomic"

	"github.com/vk/splashload/internal/registry"
)

// Class is the component class this module provides.
const Class = "MyToolBtn"

// ToolButton is a clickable toolbar entry.
type ToolButton struct {
	Label   string
	onClick func()
	clicks  atomic.Int64
}

// NewToolButton creates a button with label.
func NewToolButton(label string) *ToolButton {
	return &ToolButton{Label: label}
}

// OnClick sets the click handler.
func (b *ToolButton) OnClick(fn func()) {
	b.onClick = fn
}

// Click records a click and runs the handler.
func (b *ToolButton) Click() {
	b.clicks.Add(1)
	if b.onClick != nil {
		b.onClick()
	}
}

// Clicks returns how many times the button was clicked.
func (b *ToolButton) Clicks() int64 {
	return b.clicks.Load()
}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the MyToolBtn factory.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponent(Class, func() (any, error) {
		return NewToolButton("Tool"), nil
	})
}
