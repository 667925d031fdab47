// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package config defines the format-agnostic manifest model, along with the
// Loader interface for reading manifests from a namespace.
//
// The `config.Manifest` is the single source of truth for the loader. It is
// created once at startup and never mutated afterwards, so it can be shared
// between the controller and the background worker without locking.
// Concrete decoders (JSON via go-cty, HCL via hcl/v2) live in the manifest
// package.
package config
