package engine

import (
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kestreldb/kestrel/errors"
	"github.com/kestreldb/kestrel/internal/sqlite"
)

const (
	dirPermissions  = 0750
	openPingTimeout = 5 * time.Second
	connMaxIdleTime = 30 * time.Minute
)

// DB is one open database instance: a SQLite-backed script executor.
// It is safe for concurrent use; SQLite serializes writers internally and
// the pool is capped at a single connection.
type DB struct {
	sql  *sql.DB
	path string
	mu   sync.RWMutex
}

// Open initializes a database at path. An empty path or ":memory:" opens a
// non-persistent in-memory database. For on-disk databases the parent
// directory is created if missing.
func Open(path string) (*DB, error) {
	if path != "" && path != sqlite.MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
			return nil, errors.OpenFailed(path, err)
		}
	}

	sqlDB, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.OpenFailed(path, err)
	}

	// One writer connection; SQLite does not benefit from more.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), openPingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, errors.OpenFailed(path, err)
	}

	Logger().Debug("database opened",
		zap.String("path", path),
		zap.String("driver", sqlite.DriverType()))

	return &DB{sql: sqlDB, path: path}, nil
}

// Path returns the filesystem path the database was opened with.
// Empty for in-memory databases.
func (db *DB) Path() string {
	if db.path == sqlite.MemoryPath {
		return ""
	}
	return db.path
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.sql == nil {
		return nil
	}
	err := db.sql.Close()
	db.sql = nil

	Logger().Debug("database closed", zap.String("path", db.path))
	return err
}

// Backup writes a consistent snapshot of the database to dest using
// VACUUM INTO. dest must not already exist.
func (db *DB) Backup(ctx context.Context, dest string) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.sql == nil {
		return errors.Closed(errors.PhaseScript, "database")
	}
	if dest == "" {
		return errors.InvalidInput(errors.PhaseScript, "backup path is empty")
	}
	if _, err := os.Stat(dest); err == nil {
		return errors.InvalidInput(errors.PhaseScript, "backup target already exists")
	}
	if _, err := db.sql.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		return errors.ExecFailed("backup database", err)
	}
	return nil
}

// Restore replaces the database contents with a backup previously produced
// by Backup. Only supported for on-disk databases: the pool is closed, the
// file swapped, and the pool reopened.
func (db *DB) Restore(ctx context.Context, src string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.sql == nil {
		return errors.Closed(errors.PhaseScript, "database")
	}
	if db.path == "" || db.path == sqlite.MemoryPath {
		return errors.InvalidInput(errors.PhaseScript, "cannot restore an in-memory database")
	}

	if err := db.sql.Close(); err != nil {
		return errors.Wrap(errors.PhaseScript, errors.KindIO, err, "close pool before restore")
	}
	db.sql = nil

	if err := copyFile(src, db.path); err != nil {
		return errors.Wrap(errors.PhaseScript, errors.KindIO, err, "copy backup into place")
	}
	// Stale WAL state would shadow the restored content.
	os.Remove(db.path + "-wal")
	os.Remove(db.path + "-shm")

	sqlDB, err := sqlite.Open(db.path)
	if err != nil {
		return errors.OpenFailed(db.path, err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return errors.OpenFailed(db.path, err)
	}
	db.sql = sqlDB

	Logger().Info("database restored",
		zap.String("path", db.path),
		zap.String("from", src))
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
