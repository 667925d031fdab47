// Package app wires a loading run together: it resolves the filesystem and
// embedded namespaces, reads the manifest, builds the display stack and the
// health endpoint, and drives the loader controller until completion.
//
// Nothing in here parses arguments or exits the process; cmd/cli owns that.
package app
