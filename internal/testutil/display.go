package testutil

import (
	"context"
	"fmt"
	"sync"
)

// RecordingDisplay is a display.Display that records every call.
type RecordingDisplay struct {
	mu       sync.Mutex
	calls    []string
	statuses []string
	progress [][2]int
	current  []string
	opens    int
	closes   int
	complete int

	// OpenErr is returned by Open when set.
	OpenErr error
	// OnStatus, when set, is called after each SetStatus.
	OnStatus func(text string)
}

// Open implements display.Display.
func (d *RecordingDisplay) Open(_ context.Context, total int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, fmt.Sprintf("open(%d)", total))
	d.opens++
	return d.OpenErr
}

// SetStatus implements display.Display.
func (d *RecordingDisplay) SetStatus(text string) {
	d.mu.Lock()
	d.calls = append(d.calls, "status("+text+")")
	d.statuses = append(d.statuses, text)
	hook := d.OnStatus
	d.mu.Unlock()
	if hook != nil {
		hook(text)
	}
}

// SetProgress implements display.Display.
func (d *RecordingDisplay) SetProgress(completed, total int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, fmt.Sprintf("progress(%d/%d)", completed, total))
	d.progress = append(d.progress, [2]int{completed, total})
}

// SetCurrent implements display.Tracker.
func (d *RecordingDisplay) SetCurrent(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, "current("+name+")")
	d.current = append(d.current, name)
}

// Complete implements display.Completer.
func (d *RecordingDisplay) Complete() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, "complete")
	d.complete++
}

// Close implements display.Display.
func (d *RecordingDisplay) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, "close")
	d.closes++
	return nil
}

// Calls returns every recorded call in order.
func (d *RecordingDisplay) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// Statuses returns the status texts in order.
func (d *RecordingDisplay) Statuses() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.statuses...)
}

// Progress returns the (completed, total) pairs in order.
func (d *RecordingDisplay) Progress() [][2]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([][2]int(nil), d.progress...)
}

// Current returns the display names passed to SetCurrent in order.
func (d *RecordingDisplay) Current() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.current...)
}

// Completions returns how many times Complete was called.
func (d *RecordingDisplay) Completions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.complete
}

// Opens returns how many times Open was called.
func (d *RecordingDisplay) Opens() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens
}

// Closes returns how many times Close was called.
func (d *RecordingDisplay) Closes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}
