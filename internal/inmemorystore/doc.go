// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// instance store: the place initialized components are published to so the
// host application can retrieve them by class identifier.
//
// # Semantics
//
//   - **Last write wins:** publishing the same key twice replaces the earlier
//     instance. Manifest order is authoritative, so a class listed twice with
//     init enabled ends up holding the instance built for the later entry.
//   - **Ownership:** the store owns published instances for the lifetime of
//     the application. Instances implementing io.Closer are closed by Close,
//     or by Publish when a later instance replaces them.
//
// # Concurrency Model
//
// The loader publishes from its controller goroutine while the host may read
// from any goroutine once loading completes, so entries live in a sync.Map.
// Insertion order is tracked separately under a mutex so Keys is stable.
package inmemorystore
