package engine

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/kestreldb/kestrel/errors"
)

// Result is the outcome of one successful script execution: the last
// statement's result set in named-rows form.
type Result struct {
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rows"`
	Took    float64  `json:"took"`
	OK      bool     `json:"ok"`
}

// Execute runs a script to completion inside one transaction and returns
// the last statement's result. Statements are separated by semicolons;
// parameters are bound by name ($name, :name or @name) from params.
func (db *DB) Execute(ctx context.Context, script string, params map[string]any) (*Result, error) {
	return db.execute(ctx, script, params, false)
}

// ExecuteReadOnly is Execute restricted to statements that cannot modify
// data. Any write statement fails the whole script before execution.
func (db *DB) ExecuteReadOnly(ctx context.Context, script string, params map[string]any) (*Result, error) {
	return db.execute(ctx, script, params, true)
}

func (db *DB) execute(ctx context.Context, script string, params map[string]any, readOnly bool) (*Result, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.sql == nil {
		return nil, errors.Closed(errors.PhaseScript, "database")
	}

	stmts := splitStatements(script)
	if readOnly {
		for i, stmt := range stmts {
			if kw := firstKeyword(stmt); kw != "" && !isQueryStatement(stmt) {
				return nil, errors.InvalidInput(errors.PhaseScript,
					fmt.Sprintf("statement %d (%s) not allowed in a read-only query", i+1, kw))
			}
		}
	}

	start := time.Now()
	// Read-only enforcement is by statement classification above; the
	// drivers do not implement sql.TxOptions.ReadOnly.
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.ExecFailed("begin transaction", err)
	}

	var res *Result
	for i, stmt := range stmts {
		if firstKeyword(stmt) == "" {
			continue
		}
		args := bindParams(stmt, params)

		// The last executed statement's result is the script's result.
		if isQueryStatement(stmt) {
			rows, err := tx.QueryContext(ctx, stmt, args...)
			if err != nil {
				tx.Rollback()
				return nil, errors.ExecFailed(fmt.Sprintf("statement %d", i+1), err)
			}
			r, err := collectRows(rows)
			if err != nil {
				tx.Rollback()
				return nil, errors.ExecFailed(fmt.Sprintf("statement %d", i+1), err)
			}
			res = r
			continue
		}

		out, err := tx.ExecContext(ctx, stmt, args...)
		if err != nil {
			tx.Rollback()
			return nil, errors.ExecFailed(fmt.Sprintf("statement %d", i+1), err)
		}
		affected, _ := out.RowsAffected()
		res = &Result{
			Headers: []string{"rows_affected"},
			Rows:    [][]any{{affected}},
		}
	}

	if res == nil {
		tx.Rollback()
		return nil, errors.InvalidInput(errors.PhaseScript, "empty script")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.ExecFailed("commit transaction", err)
	}

	res.Took = time.Since(start).Seconds()
	res.OK = true

	Logger().Debug("script executed",
		zap.Int("statements", len(stmts)),
		zap.Duration("took", time.Since(start)))
	return res, nil
}

func collectRows(rows *sql.Rows) (*Result, error) {
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([][]any, 0, 8)
	for rows.Next() {
		vals := make([]any, len(headers))
		ptrs := make([]any, len(headers))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range vals {
			vals[i] = normalizeValue(v)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Result{Headers: headers, Rows: out}, nil
}

// normalizeValue maps driver scan types onto JSON-friendly values.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return v
	}
}

// bindParams builds the named argument list for one statement, binding
// only parameters the statement actually references so unused entries in
// the params object stay legal.
func bindParams(stmt string, params map[string]any) []any {
	if len(params) == 0 {
		return nil
	}
	var args []any
	for k, v := range params {
		if referencesParam(stmt, k) {
			args = append(args, sql.Named(k, bindValue(v)))
		}
	}
	return args
}

// referencesParam reports whether stmt contains $name, :name or @name for
// the given name as a whole identifier. This is a textual check: a match
// inside a string literal over-binds, which SQLite tolerates for named
// arguments present in the statement text.
func referencesParam(stmt, name string) bool {
	for i := 0; i+len(name) < len(stmt); i++ {
		c := stmt[i]
		if c != '$' && c != ':' && c != '@' {
			continue
		}
		j := i + 1 + len(name)
		if stmt[i+1:j] != name {
			continue
		}
		if j == len(stmt) || !isIdentChar(stmt[j]) {
			return true
		}
	}
	return false
}

// bindValue maps a decoded JSON parameter onto a SQLite-bindable value.
// Integral floats become int64 so JSON integers round-trip as integers;
// compound values are re-encoded as JSON text.
func bindValue(v any) any {
	switch t := v.(type) {
	case nil, bool, string, int64:
		return t
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return int64(t)
		}
		return t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
