package loader

import "fmt"

// Event is a message from the Worker to the Controller. The set of events is
// closed: LoadItem, Done and Fault.
type Event interface {
	event()
}

// LoadItem asks the Controller to load one component.
type LoadItem struct {
	// Sequence is the 1-based position of the item in the manifest.
	Sequence int
	// Path is the source path relative to the item's namespace.
	Path string
	// Location is Path as seen from outside the namespace, for messages.
	Location     string
	Class        string
	DisplayName  string
	Initialize   bool
	FromResource bool
}

// Done reports that the manifest is exhausted.
type Done struct{}

// Fault carries an error raised by the Worker while answering a request.
type Fault struct {
	Err error
}

func (LoadItem) event() {}
func (Done) event()     {}
func (Fault) event()    {}

// String implements fmt.Stringer.
func (i LoadItem) String() string {
	return fmt.Sprintf("LoadItem(%d, %s)", i.Sequence, i.Path)
}
