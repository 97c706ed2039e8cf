package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kestreldb/kestrel/engine"
	"github.com/kestreldb/kestrel/errors"
	"github.com/kestreldb/kestrel/registry"
)

// Instance is the query-engine capability the gateway drives: execute a
// script with decoded parameters, yield a JSON-serializable value or an
// error. Close is owned by the registry.
type Instance interface {
	Execute(ctx context.Context, script string, params map[string]any) (any, error)
	ExecuteReadOnly(ctx context.Context, script string, params map[string]any) (any, error)
	Close() error
}

// Opener initializes an instance at a filesystem path.
type Opener func(path string) (Instance, error)

// Outcome is the tagged result of one query execution. Payload is either
// the serialized result value or the error message; Errored tells which.
// Payload is never empty on a normal return.
type Outcome struct {
	Payload string
	Errored bool
}

// Gateway resolves handles to instances and runs queries to completion.
// It is safe for arbitrary concurrent use.
type Gateway struct {
	reg  *registry.Registry
	open Opener
}

// New creates a gateway over the SQLite engine.
func New() *Gateway {
	return NewWith(func(path string) (Instance, error) {
		db, err := engine.Open(path)
		if err != nil {
			return nil, err
		}
		return WrapEngine(db), nil
	})
}

// WrapEngine adapts an engine database to the gateway's Instance
// capability. Useful when the embedder opens the engine itself and still
// wants handle-based execution over it.
func WrapEngine(db *engine.DB) Instance {
	return engineInstance{db}
}

// NewWith creates a gateway with a custom opener. Used by tests and by
// embedders that supply their own engine.
func NewWith(open Opener) *Gateway {
	return &Gateway{
		reg:  registry.New(),
		open: open,
	}
}

// Registry exposes the gateway's handle table, e.g. for observers or
// shutdown.
func (g *Gateway) Registry() *registry.Registry {
	return g.reg
}

// Open initializes a database at path and registers it. On success the
// returned handle is valid until closed; on failure no handle is
// allocated.
func (g *Gateway) Open(path string) (registry.Handle, error) {
	if !utf8.ValidString(path) {
		return -1, errors.InvalidUTF8(errors.PhaseOpen, "path")
	}
	inst, err := g.open(path)
	if err != nil {
		return -1, err
	}
	return g.reg.Put(inst), nil
}

// Close closes a handle. Returns false if it was already closed or never
// existed; never fails destructively.
func (g *Gateway) Close(h registry.Handle) bool {
	return g.reg.Close(h)
}

// Run executes a script against an open handle with a JSON object of
// parameters ("{}" for none) and returns the boundary-ready outcome.
func (g *Gateway) Run(ctx context.Context, h registry.Handle, script, paramsJSON string) Outcome {
	return g.run(ctx, h, script, paramsJSON, false)
}

// RunReadOnly is Run with write statements refused by the engine.
func (g *Gateway) RunReadOnly(ctx context.Context, h registry.Handle, script, paramsJSON string) Outcome {
	return g.run(ctx, h, script, paramsJSON, true)
}

func (g *Gateway) run(ctx context.Context, h registry.Handle, script, paramsJSON string, readOnly bool) Outcome {
	if !utf8.ValidString(script) {
		return failure(errors.InvalidUTF8(errors.PhaseScript, "script"))
	}
	params, err := parseParams(paramsJSON)
	if err != nil {
		return failure(err)
	}

	inst, ok := g.reg.Borrow(h)
	if !ok {
		return failure(errors.NotFound(errors.PhaseRegistry, "database", int32(h)))
	}
	defer g.reg.Return(h)

	value, err := g.invoke(ctx, inst.(Instance), script, params, readOnly)
	if err != nil {
		return failure(err)
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return failure(errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "serialize result"))
	}
	return Outcome{Payload: string(payload)}
}

// invoke runs the engine call behind a recover guard: a panicking engine
// must surface as a failed query, never tear down the embedding process.
func (g *Gateway) invoke(ctx context.Context, inst Instance, script string, params map[string]any, readOnly bool) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			engine.Logger().Error("query engine panicked", zap.Any("panic", r))
			err = errors.ExecFailed(fmt.Sprintf("query engine panic: %v", r), nil)
		}
	}()

	if readOnly {
		return inst.ExecuteReadOnly(ctx, script, params)
	}
	return inst.Execute(ctx, script, params)
}

func failure(err error) Outcome {
	return Outcome{Payload: err.Error(), Errored: true}
}

// parseParams decodes the boundary's params text, requiring a JSON object
// at the top level. The engine is never invoked on a params failure.
func parseParams(s string) (map[string]any, error) {
	if !utf8.ValidString(s) {
		return nil, errors.InvalidUTF8(errors.PhaseParams, "params")
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, errors.ParseFailed(errors.PhaseParams, "params json", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.NotObject(jsonTypeName(v))
	}
	return m, nil
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

type engineInstance struct {
	db *engine.DB
}

func (e engineInstance) Execute(ctx context.Context, script string, params map[string]any) (any, error) {
	return e.db.Execute(ctx, script, params)
}

func (e engineInstance) ExecuteReadOnly(ctx context.Context, script string, params map[string]any) (any, error) {
	return e.db.ExecuteReadOnly(ctx, script, params)
}

func (e engineInstance) Close() error {
	return e.db.Close()
}
