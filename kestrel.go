package kestrel

import (
	"context"

	"github.com/kestreldb/kestrel/engine"
)

// Result is the outcome of one successful query: the last statement's
// result set in named-rows form.
type Result = engine.Result

// DB is an open kestrel database, the native Go embedding surface.
// Foreign callers go through the handle-based C API instead
// (cmd/libkestrel).
type DB struct {
	db *engine.DB
}

// Open initializes a database at path. An empty path or ":memory:" opens
// a non-persistent in-memory database.
func Open(path string) (*DB, error) {
	db, err := engine.Open(path)
	if err != nil {
		return nil, err
	}
	return &DB{db: db}, nil
}

// Run executes a script with named parameters and returns the last
// statement's result. A nil params map means no parameters.
func (d *DB) Run(ctx context.Context, script string, params map[string]any) (*Result, error) {
	return d.db.Execute(ctx, script, params)
}

// RunReadOnly is Run with write statements refused.
func (d *DB) RunReadOnly(ctx context.Context, script string, params map[string]any) (*Result, error) {
	return d.db.ExecuteReadOnly(ctx, script, params)
}

// Backup writes a consistent snapshot of the database to dest.
func (d *DB) Backup(ctx context.Context, dest string) error {
	return d.db.Backup(ctx, dest)
}

// Restore replaces the database contents with a backup produced by Backup.
func (d *DB) Restore(ctx context.Context, src string) error {
	return d.db.Restore(ctx, src)
}

// Close releases the database. Further calls fail with a closed error.
func (d *DB) Close() error {
	return d.db.Close()
}
