// Package sqlite provides a unified SQLite interface supporting both
// pure Go (modernc.org/sqlite) and CGO (mattn/go-sqlite3) implementations.
//
// Build modes:
//   - Default: uses pure Go modernc.org/sqlite
//   - CGO mode (-tags cgo_sqlite, CGO_ENABLED=1): uses mattn/go-sqlite3
//
// The two drivers register under different names and spell connection
// pragmas differently, so callers must go through Open/DSN here instead of
// sql.Open.
package sqlite

import (
	"database/sql"
)

// MemoryPath is the path value that opens a non-persistent database.
const MemoryPath = ":memory:"

// DriverName returns the registered SQL driver name in use.
func DriverName() string {
	return driverName
}

// DriverType returns a string identifying the underlying implementation.
// Returns "cgo" for mattn/go-sqlite3, "purego" for modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// IsCGO returns true if the CGO implementation is being used.
func IsCGO() bool {
	return driverType == "cgo"
}

// Open opens a SQLite database at path using the appropriate driver.
// An empty path or MemoryPath opens an in-memory database.
func Open(path string) (*sql.DB, error) {
	return sql.Open(driverName, DSN(path))
}

// DSN builds the driver-specific data source name for path, with busy
// timeout and foreign keys enabled, and WAL journaling for on-disk
// databases.
func DSN(path string) string {
	if path == "" || path == MemoryPath {
		return memoryDSN()
	}
	return fileDSN(path)
}
