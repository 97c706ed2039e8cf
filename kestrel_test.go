package kestrel

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenRunClose(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	ctx := context.Background()
	if _, err := db.Run(ctx, "CREATE TABLE t (x INTEGER); INSERT INTO t VALUES (1), (2)", nil); err != nil {
		t.Fatalf("setup: %v", err)
	}

	res, err := db.Run(ctx, "SELECT x FROM t WHERE x > $min", map[string]any{"min": 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0][0] != int64(2) {
		t.Fatalf("unexpected rows %v", res.Rows)
	}

	if _, err := db.RunReadOnly(ctx, "DROP TABLE t", nil); err == nil {
		t.Error("RunReadOnly should refuse DROP")
	}

	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := db.Run(ctx, "SELECT 1", nil); err == nil {
		t.Error("Run after Close should fail")
	}
}
