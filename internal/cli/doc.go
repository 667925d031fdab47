// Package cli turns command-line flags, the optional settings file and
// SPLASHLOAD_* environment variables into a validated app.Config. Explicit
// flags override the file and the environment; a positional CHILD_DIR
// overrides everything.
package cli
