// Package sqlite provides a SQLite-based implementation of the history ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. One database connection backs two stores:
//
//   - EvaluationStore: scored pages and video cards
//   - SessionLog: focus sessions
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.focuscoach/data/history.db
//
// Several processes may write at once (the CLI, the bridge, the TUI); WAL mode
// and a busy timeout serialise them.
package sqlite
