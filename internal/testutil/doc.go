// Package testutil holds fixtures shared by the package tests: a recording
// display, in-memory namespaces and counting component modules.
package testutil
