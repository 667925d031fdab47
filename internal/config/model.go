// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package config

import "fmt"

// Descriptor is one manifest entry describing a component to load.
type Descriptor struct {
	// DisplayName is shown in the progress display while loading.
	DisplayName string
	// Class names the component type to link and optionally construct.
	Class string
	// RelativePath is a directory prefix, empty or ending in "/".
	RelativePath string
	// Initialize constructs and publishes the component when true.
	Initialize bool
	// FromResource resolves the source in the embedded namespace instead of
	// the filesystem.
	FromResource bool
}

// SourcePath joins the relative path, class and extension into the location
// of the component's source inside its namespace.
func (d Descriptor) SourcePath(ext string) string {
	return d.RelativePath + d.Class + ext
}

// String implements fmt.Stringer.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s(%s%s)", d.DisplayName, d.RelativePath, d.Class)
}

// Manifest is the ordered list of components. Order is load order.
type Manifest struct {
	// Origin records where the manifest was read from, for error messages.
	Origin      string
	Descriptors []Descriptor
}

// Len returns the number of descriptors.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Descriptors)
}

// At returns the descriptor at index i.
func (m *Manifest) At(i int) Descriptor {
	return m.Descriptors[i]
}
