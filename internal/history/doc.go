// Package history persists completed runs in SQLite.
//
// Only runs that finished and were encoded are recorded. The store is a single
// table keyed by run id; reads are ordered newest first for the CLI listing.
// A schema_version table guards against opening a database written by an
// incompatible build.
package history
