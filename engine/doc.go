// Package engine implements kestrel's query engine: a SQL-script executor
// over SQLite.
//
// A script is one or more semicolon-separated statements executed inside a
// single transaction; the result of the last statement comes back as a
// named-rows value:
//
//	db, err := engine.Open("/var/lib/app/data.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	res, err := db.Execute(ctx,
//	    "SELECT name, age FROM people WHERE age > $min",
//	    map[string]any{"min": 30})
//	// res.Headers == ["name", "age"], res.Rows == [[...], ...]
//
// Parameters bind by name ($name, :name or @name). Params the script never
// references are ignored, so callers may always pass their full parameter
// object. Statements that return no rows yield a single-cell
// "rows_affected" result.
//
// # Drivers
//
// Storage goes through internal/sqlite: pure Go modernc.org/sqlite by
// default, mattn/go-sqlite3 with -tags cgo_sqlite. On-disk databases run
// in WAL mode with a busy timeout; the pool holds one connection since
// SQLite admits one writer.
//
// # Logging
//
// The package logs through a process-wide zap logger, no-op by default.
// Binaries install a real one with SetLogger.
package engine
