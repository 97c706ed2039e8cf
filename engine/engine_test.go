package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	kerrors "github.com/kestreldb/kestrel/errors"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestExecute_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	res, err := db.Execute(ctx, `
		CREATE TABLE people (name TEXT, age INTEGER);
		INSERT INTO people VALUES ('ana', 34), ('bo', 19);
		SELECT name, age FROM people ORDER BY age;
	`, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !res.OK {
		t.Error("result not marked OK")
	}
	if len(res.Headers) != 2 || res.Headers[0] != "name" || res.Headers[1] != "age" {
		t.Fatalf("unexpected headers %v", res.Headers)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	if res.Rows[0][0] != "bo" || res.Rows[0][1] != int64(19) {
		t.Errorf("unexpected first row %v", res.Rows[0])
	}
}

func TestExecute_NamedParams(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.Execute(ctx,
		"CREATE TABLE t (k TEXT, v INTEGER); INSERT INTO t VALUES ($k, $v)",
		map[string]any{"k": "answer", "v": float64(42), "unused": "ignored"},
	); err != nil {
		t.Fatalf("insert: %v", err)
	}

	res, err := db.Execute(ctx,
		"SELECT v FROM t WHERE k = :k",
		map[string]any{"k": "answer"},
	)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0][0] != int64(42) {
		t.Fatalf("unexpected rows %v", res.Rows)
	}
}

func TestExecute_RowsAffected(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	res, err := db.Execute(ctx,
		"CREATE TABLE t (x INTEGER); INSERT INTO t VALUES (1), (2), (3)", nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Headers) != 1 || res.Headers[0] != "rows_affected" {
		t.Fatalf("unexpected headers %v", res.Headers)
	}
	if res.Rows[0][0] != int64(3) {
		t.Fatalf("rows_affected = %v, want 3", res.Rows[0][0])
	}
}

func TestExecute_ErrorRollsBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.Execute(ctx, "CREATE TABLE t (x INTEGER)", nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := db.Execute(ctx, "INSERT INTO t VALUES (1); SELECT FROM nope nope", nil)
	if err == nil {
		t.Fatal("expected error from invalid statement")
	}
	if !errors.Is(err, &kerrors.Error{Phase: kerrors.PhaseScript, Kind: kerrors.KindExec}) {
		t.Errorf("unexpected error type: %v", err)
	}

	res, err := db.Execute(ctx, "SELECT COUNT(*) FROM t", nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if res.Rows[0][0] != int64(0) {
		t.Errorf("insert survived failed script: count = %v", res.Rows[0][0])
	}
}

func TestExecute_EmptyScript(t *testing.T) {
	db := openTestDB(t)

	for _, script := range []string{"", "   ", ";;", "-- just a comment"} {
		_, err := db.Execute(context.Background(), script, nil)
		if err == nil {
			t.Errorf("script %q should fail", script)
		}
	}
}

func TestExecuteReadOnly(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.Execute(ctx, "CREATE TABLE t (x INTEGER); INSERT INTO t VALUES (7)", nil); err != nil {
		t.Fatalf("setup: %v", err)
	}

	res, err := db.ExecuteReadOnly(ctx, "SELECT x FROM t", nil)
	if err != nil {
		t.Fatalf("read-only select: %v", err)
	}
	if res.Rows[0][0] != int64(7) {
		t.Fatalf("unexpected rows %v", res.Rows)
	}

	_, err = db.ExecuteReadOnly(ctx, "DELETE FROM t", nil)
	if err == nil {
		t.Fatal("read-only execution should refuse DELETE")
	}
	if !errors.Is(err, &kerrors.Error{Phase: kerrors.PhaseScript, Kind: kerrors.KindInvalidInput}) {
		t.Errorf("unexpected error type: %v", err)
	}

	// The refused write must not have run.
	res, err = db.Execute(ctx, "SELECT COUNT(*) FROM t", nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if res.Rows[0][0] != int64(1) {
		t.Error("DELETE executed despite read-only refusal")
	}
}

func TestExecute_Closed(t *testing.T) {
	db := openTestDB(t)
	db.Close()

	_, err := db.Execute(context.Background(), "SELECT 1", nil)
	if !errors.Is(err, &kerrors.Error{Phase: kerrors.PhaseScript, Kind: kerrors.KindClosed}) {
		t.Fatalf("expected closed error, got %v", err)
	}
}

func TestOpen_InMemory(t *testing.T) {
	for _, path := range []string{"", ":memory:"} {
		db, err := Open(path)
		if err != nil {
			t.Fatalf("Open(%q): %v", path, err)
		}
		if db.Path() != "" {
			t.Errorf("in-memory Path() = %q, want empty", db.Path())
		}
		if _, err := db.Execute(context.Background(), "SELECT 1", nil); err != nil {
			t.Errorf("Open(%q) execute: %v", path, err)
		}
		db.Close()
	}
}

func TestBackupRestore(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := Open(filepath.Join(dir, "main.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := db.Execute(ctx, "CREATE TABLE t (x INTEGER); INSERT INTO t VALUES (1)", nil); err != nil {
		t.Fatalf("setup: %v", err)
	}

	backup := filepath.Join(dir, "backup.db")
	if err := db.Backup(ctx, backup); err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if err := db.Backup(ctx, backup); err == nil {
		t.Fatal("Backup over an existing file should fail")
	}

	if _, err := db.Execute(ctx, "INSERT INTO t VALUES (2)", nil); err != nil {
		t.Fatalf("post-backup insert: %v", err)
	}

	if err := db.Restore(ctx, backup); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	res, err := db.Execute(ctx, "SELECT COUNT(*) FROM t", nil)
	if err != nil {
		t.Fatalf("count after restore: %v", err)
	}
	if res.Rows[0][0] != int64(1) {
		t.Fatalf("count after restore = %v, want 1", res.Rows[0][0])
	}
}

func TestBindValue(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{nil, nil},
		{true, true},
		{"s", "s"},
		{float64(42), int64(42)},
		{float64(1.5), float64(1.5)},
		{[]any{1, 2}, "[1,2]"},
		{map[string]any{"a": 1}, `{"a":1}`},
	}
	for _, tt := range tests {
		if got := bindValue(tt.in); got != tt.want {
			t.Errorf("bindValue(%v) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}
