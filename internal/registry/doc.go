// Package registry provides the central "glue" for the component system.
//
// The Registry stores mappings between the class identifiers used in
// manifests (e.g., "MainController") and the compiled Go constructors that
// build those components. Modules contribute constructors at startup through
// the Module interface; nothing is looked up by reflection at runtime.
//
// A constructor becomes usable only after the loader has linked its class,
// which happens when the component's source file has been read and found to
// declare the class. Linked classes can be constructed later by the host with
// New, mirroring components that are loaded but not initialized at startup.
package registry
