// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package config

import (
	"context"

	"github.com/vk/splashload/internal/fsutil"
)

// DefaultManifestName is the manifest file looked up in the child directory.
const DefaultManifestName = "Loader.json"

// Source tells a Loader where the manifest lives.
type Source struct {
	// Namespace is the filesystem or embedded namespace to read from.
	Namespace *fsutil.Namespace
	// Dir is the child directory inside the namespace.
	Dir string
	// Name is the manifest file name; empty means DefaultManifestName.
	Name string
}

// Path returns the manifest path relative to the namespace root.
func (s Source) Path() string {
	name := s.Name
	if name == "" {
		name = DefaultManifestName
	}
	if s.Dir == "" {
		return name
	}
	return s.Dir + "/" + name
}

// Loader is the interface for a manifest loader.
type Loader interface {
	// Load reads and decodes the manifest described by src. Any failure,
	// including an empty manifest, is a configuration error.
	Load(ctx context.Context, src Source) (*Manifest, error)
}
