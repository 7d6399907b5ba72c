// Package store is the SQLite-backed project library: every saved project
// lives as one canonical JSON document in a single database file.
//
// SQLite replaces the loose per-project JSON files of earlier versions
// while keeping their document shape intact; a row's document column is
// exactly what the old flat file held. Configuration follows the usual
// single-writer setup:
//
//   - WAL mode for concurrent reads during writes
//   - synchronous=NORMAL
//   - 5-second busy timeout
//   - foreign key enforcement
//
// Schema migrations run automatically on Open and are tracked through
// PRAGMA user_version.
package store
