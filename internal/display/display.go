// Package display contains the progress displays the loader drives: a tcell
// terminal window, a styled line stream for non-interactive output, a
// socket.io feed for remote monitors, and helpers to combine them.
//
// All Display methods are called from the loader's controller goroutine only.
package display

import (
	"context"
	"errors"
)

// InitialStatus is shown before the first component starts loading.
const InitialStatus = "Loading components"

// ItemStatus formats the status text for a component being loaded.
func ItemStatus(name string) string {
	return "Loading component : " + name
}

// Display is the progress window of a loading run.
type Display interface {
	// Open shows the display for a run of total components.
	Open(ctx context.Context, total int) error
	// SetStatus replaces the status text.
	SetStatus(text string)
	// SetProgress moves the progress bar.
	SetProgress(completed, total int)
	// Close hides the display and releases its resources.
	Close() error
}

// Tracker is implemented by displays that also want the display name of the
// component being loaded, apart from the formatted status text.
type Tracker interface {
	SetCurrent(name string)
}

// Completer is implemented by displays that report a successful run
// differently from one that was cut short. Complete is called before Close
// only when every component was processed.
type Completer interface {
	Complete()
}

// SetCurrent passes name to d if d is a Tracker.
func SetCurrent(d Display, name string) {
	if t, ok := d.(Tracker); ok {
		t.SetCurrent(name)
	}
}

// Complete signals success to d if d is a Completer.
func Complete(d Display) {
	if c, ok := d.(Completer); ok {
		c.Complete()
	}
}

// Nop is a Display that does nothing.
type Nop struct{}

func (Nop) Open(context.Context, int) error { return nil }
func (Nop) SetStatus(string)                {}
func (Nop) SetProgress(int, int)            {}
func (Nop) Close() error                    { return nil }

type multi []Display

// Multi fans every call out to all displays in order.
func Multi(displays ...Display) Display {
	switch len(displays) {
	case 0:
		return Nop{}
	case 1:
		return displays[0]
	}
	return multi(displays)
}

func (m multi) Open(ctx context.Context, total int) error {
	for i, d := range m {
		if err := d.Open(ctx, total); err != nil {
			// Close the ones already shown.
			for j := i - 1; j >= 0; j-- {
				_ = m[j].Close()
			}
			return err
		}
	}
	return nil
}

func (m multi) SetStatus(text string) {
	for _, d := range m {
		d.SetStatus(text)
	}
}

func (m multi) SetProgress(completed, total int) {
	for _, d := range m {
		d.SetProgress(completed, total)
	}
}

func (m multi) SetCurrent(name string) {
	for _, d := range m {
		SetCurrent(d, name)
	}
}

func (m multi) Complete() {
	for _, d := range m {
		Complete(d)
	}
}

func (m multi) Close() error {
	var errs []error
	for _, d := range m {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
