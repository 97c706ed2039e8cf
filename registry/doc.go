// Package registry provides the process-wide handle table for open
// database instances.
//
// The foreign-function boundary has no object model to anchor instance
// lifetime to, so ownership lives here: each open database is stored under
// a small integer handle, and handles are what cross the boundary.
//
// # Handle Lifecycle
//
//	reg := registry.New()
//
//	// Store an instance, get a handle (0, 1, 2, ...)
//	h := reg.Put(db)
//
//	// Borrow for the duration of one query
//	db, ok := reg.Borrow(h)
//	if ok {
//	    defer reg.Return(h)
//	    // ... execute against db ...
//	}
//
//	// Close the handle; idempotent, never panics on garbage values
//	closed := reg.Close(h)
//
// # Concurrency
//
// Open, close, and borrow may race freely, including against the same
// handle. Close marks the handle unusable for new borrows immediately and
// returns without blocking; the instance itself is torn down by whichever
// of Close or the last Return observes the borrow count reach zero. An
// in-flight query therefore never sees its instance freed underneath it.
//
// # Observers
//
// Register observers to track handle lifecycle events:
//
//	reg.Subscribe(obs) // obs.OnRegistryEvent(Event{...})
//
// EventClosed fires when a handle stops accepting borrows; EventDropped
// fires after physical teardown, carrying any teardown error.
package registry
