// Package kestrel is an embeddable script database with a C-compatible
// foreign-function boundary.
//
// Callers open a database by filesystem path, receive an opaque integer
// handle, submit query scripts with JSON parameters, and get back JSON
// results or error text. Scripts are SQL executed by an embedded SQLite
// engine; the boundary machinery around it is the interesting part.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	kestrel/             Root package: native Go embedding API
//	├── gateway/         Handle-based query execution front door
//	├── registry/        Process-wide handle table with borrow tracking
//	├── engine/          SQL-script executor over SQLite
//	├── errors/          Structured error types
//	├── internal/sqlite/ Driver selection (pure Go or CGO SQLite)
//	├── internal/config/ YAML configuration for the server binary
//	└── cmd/
//	    ├── libkestrel/      C API (build as c-shared/c-archive)
//	    ├── kestrel/         Query shell (scripted and interactive TUI)
//	    └── kestrel-server/  HTTP query service
//
// # Quick Start
//
// Embed directly from Go:
//
//	db, err := kestrel.Open("/var/lib/app/data.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	res, err := db.Run(ctx, "SELECT name FROM people WHERE age > $min",
//	    map[string]any{"min": 30})
//
// # Foreign Callers
//
// Build cmd/libkestrel with -buildmode=c-shared to get a shared library
// exposing four operations: kestrel_open_db, kestrel_close_db,
// kestrel_run_query and kestrel_free_str. Every string the library returns
// is owned by the caller and must be released through kestrel_free_str
// exactly once. See cmd/libkestrel/kestrel.h for the full contract.
//
// # Thread Safety
//
// All surfaces are safe under arbitrary concurrent invocation. Closing a
// database racing an in-flight query is safe: teardown is deferred until
// the query completes.
package kestrel
