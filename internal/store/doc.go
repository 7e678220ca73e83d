// Package store defines the persistence interfaces for the application's
// entities along with the sentinel errors shared by all implementations.
//
// Interfaces here are implemented by internal/platform/postgres and by
// in-memory fakes in tests. Services depend on these interfaces, never on a
// concrete database.
package store
