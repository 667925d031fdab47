// Package print provides the Console component, which writes sorted
// key/value listings to an output stream.
package print

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/vk/splashload/internal/registry"
)

// Class is the component class this module provides.
const Class = "Console"

// Console writes key/value listings.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Print writes values sorted by key, one per line.
func (c *Console) Print(values map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if values == nil {
		fmt.Fprintln(c.w, "      (null)")
		return
	}

	// Sort keys for consistent output
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(c.w, "      %s = %q\n", k, values[k])
	}
}

// Module implements the registry.Module interface for this package.
type Module struct {
	// Out is where consoles write; nil means os.Stdout.
	Out io.Writer
}

// Register registers the Console factory.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponent(Class, func() (any, error) {
		w := m.Out
		if w == nil {
			w = os.Stdout
		}
		return NewConsole(w), nil
	})
}
