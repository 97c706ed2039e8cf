package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kestreldb/kestrel/engine"
	"github.com/kestreldb/kestrel/gateway"
)

func newTestServer(t *testing.T, path string) *httptest.Server {
	t.Helper()

	db, err := engine.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	g := gateway.NewWith(func(string) (gateway.Instance, error) {
		return gateway.WrapEngine(db), nil
	})
	h, err := g.Open(path)
	if err != nil {
		t.Fatalf("gateway open: %v", err)
	}

	srv := httptest.NewServer(newHandler(g, h, db, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) (int, string) {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()

	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return resp.StatusCode, sb.String()
}

func TestQueryEndpoint(t *testing.T) {
	srv := newTestServer(t, filepath.Join(t.TempDir(), "srv.db"))

	status, body := post(t, srv, "/query",
		`{"script": "CREATE TABLE t (x INTEGER); INSERT INTO t VALUES ($v)", "params": {"v": 5}}`)
	if status != http.StatusOK {
		t.Fatalf("status %d: %s", status, body)
	}

	status, body = post(t, srv, "/query", `{"script": "SELECT x FROM t"}`)
	if status != http.StatusOK {
		t.Fatalf("status %d: %s", status, body)
	}
	if !strings.Contains(body, `"rows":[[5]]`) {
		t.Errorf("unexpected body %s", body)
	}
}

func TestQueryEndpointErrors(t *testing.T) {
	srv := newTestServer(t, filepath.Join(t.TempDir(), "srv.db"))

	status, body := post(t, srv, "/query", `{"script": "SELECT * FROM missing"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("script error status = %d", status)
	}
	if !strings.Contains(body, "missing") {
		t.Errorf("error body should carry engine message: %s", body)
	}

	status, _ = post(t, srv, "/query", `{"script": "SELECT 1", "params": [1, 2]}`)
	if status != http.StatusBadRequest {
		t.Fatalf("non-object params status = %d", status)
	}

	status, _ = post(t, srv, "/query", `not json at all`)
	if status != http.StatusBadRequest {
		t.Fatalf("bad body status = %d", status)
	}

	status, _ = post(t, srv, "/query",
		`{"script": "DELETE FROM missing", "read_only": true}`)
	if status != http.StatusBadRequest {
		t.Fatalf("read-only write status = %d", status)
	}
}

func TestBackupRestoreEndpoints(t *testing.T) {
	dir := t.TempDir()
	srv := newTestServer(t, filepath.Join(dir, "srv.db"))

	if status, body := post(t, srv, "/query",
		`{"script": "CREATE TABLE t (x INTEGER); INSERT INTO t VALUES (1)"}`); status != http.StatusOK {
		t.Fatalf("setup failed: %d %s", status, body)
	}

	backup := filepath.Join(dir, "backup.db")
	if status, body := post(t, srv, "/backup", `{"path": "`+backup+`"}`); status != http.StatusOK {
		t.Fatalf("backup failed: %d %s", status, body)
	}

	if status, body := post(t, srv, "/query",
		`{"script": "DELETE FROM t"}`); status != http.StatusOK {
		t.Fatalf("delete failed: %d %s", status, body)
	}

	if status, body := post(t, srv, "/restore", `{"path": "`+backup+`"}`); status != http.StatusOK {
		t.Fatalf("restore failed: %d %s", status, body)
	}

	status, body := post(t, srv, "/query", `{"script": "SELECT COUNT(*) FROM t"}`)
	if status != http.StatusOK || !strings.Contains(body, `"rows":[[1]]`) {
		t.Fatalf("restored data wrong: %d %s", status, body)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}
}
