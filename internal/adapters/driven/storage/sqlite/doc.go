// Package sqlite stores the chunk side of an index build in a SQLite file.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
//   - manifest: key/value copy of the build manifest
//   - chunks:   id (vector row), source, position, text
//
// # Data Location
//
// By default, the database is stored at vector_db/chunks.db next to the
// vector index. It is written once per build into a fresh file and opened
// read-only afterwards.
package sqlite
