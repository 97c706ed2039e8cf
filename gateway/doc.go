// Package gateway is the query-execution front door behind the foreign
// boundary: it resolves integer handles to database instances, drives the
// query engine, and packages every outcome as boundary-ready text.
//
// One call shape covers execution:
//
//	g := gateway.New()
//	h, err := g.Open("/var/lib/app/data.db")
//	// ...
//	out := g.Run(ctx, h, "SELECT 1", "{}")
//	// out.Payload is the JSON result, or the error message if out.Errored
//	g.Close(h)
//
// Run never returns an empty payload: success carries the serialized
// result value, failure carries the message. Parameter text must be a JSON
// object ("{}" when unused); anything else fails before the engine is
// invoked. A handle that was closed, or never issued, fails with a
// not-found message. Engine panics are caught and reported as failed
// queries; nothing in this layer terminates the process.
//
// The gateway does not serialize callers: concurrent Run calls, including
// against the same handle, proceed independently, and a Close racing
// in-flight Runs defers instance teardown until they complete (see package
// registry).
package gateway
