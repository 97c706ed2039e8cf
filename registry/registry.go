package registry

import (
	"sync"
)

// Registry is a process-wide table mapping handles to open database
// instances. All methods are safe for concurrent use.
//
// Handles are allocated from a monotonic counter and never reused, so a
// caller holding a stale handle after close can never alias a later
// database.
type Registry struct {
	entries   map[Handle]*entry
	next      Handle
	mu        sync.Mutex
	observers []Observer
	obsMu     sync.RWMutex
}

type entry struct {
	db      Instance
	borrows int
	closing bool
}

// New creates an empty registry. The first handle it allocates is 0.
func New() *Registry {
	return &Registry{
		entries: make(map[Handle]*entry),
	}
}

// Put stores an instance and returns its freshly allocated handle.
func (r *Registry) Put(db Instance) Handle {
	r.mu.Lock()
	h := r.next
	r.next++
	r.entries[h] = &entry{db: db}
	r.mu.Unlock()

	r.notify(Event{Type: EventOpened, Handle: h})
	return h
}

// Borrow resolves a handle to its instance and records the borrow.
// It returns false for unknown, closed, or closing handles. Every
// successful Borrow must be paired with exactly one Return.
func (r *Registry) Borrow(h Handle) (Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[h]
	if !ok || e.closing {
		return nil, false
	}
	e.borrows++
	return e.db, true
}

// Return releases a borrow taken with Borrow. If the handle was closed
// while the borrow was outstanding and this was the last borrow, the
// instance is torn down now.
func (r *Registry) Return(h Handle) {
	r.mu.Lock()
	e, ok := r.entries[h]
	if !ok {
		r.mu.Unlock()
		return
	}
	if e.borrows > 0 {
		e.borrows--
	}
	if !e.closing || e.borrows > 0 {
		r.mu.Unlock()
		return
	}
	delete(r.entries, h)
	db := e.db
	r.mu.Unlock()

	// Teardown outside the lock: instance Close may block.
	err := db.Close()
	r.notify(Event{Type: EventDropped, Handle: h, Err: err})
}

// Close marks a handle closed. It returns false if the handle is unknown
// or already closed, true otherwise. New borrows are refused immediately;
// physical teardown happens now if no borrows are outstanding, or is
// deferred to the last Return. Close never blocks on in-flight borrows.
func (r *Registry) Close(h Handle) bool {
	r.mu.Lock()
	e, ok := r.entries[h]
	if !ok || e.closing {
		r.mu.Unlock()
		return false
	}
	e.closing = true
	if e.borrows > 0 {
		r.mu.Unlock()
		r.notify(Event{Type: EventClosed, Handle: h})
		return true
	}
	delete(r.entries, h)
	db := e.db
	r.mu.Unlock()

	r.notify(Event{Type: EventClosed, Handle: h})
	err := db.Close()
	r.notify(Event{Type: EventDropped, Handle: h, Err: err})
	return true
}

// Len returns the number of handles currently open (not yet closed).
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, e := range r.entries {
		if !e.closing {
			count++
		}
	}
	return count
}

// CloseAll closes every open handle. Used at process shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	var handles []Handle
	for h, e := range r.entries {
		if !e.closing {
			handles = append(handles, h)
		}
	}
	r.mu.Unlock()

	for _, h := range handles {
		r.Close(h)
	}
}

// Subscribe adds an observer for lifecycle events.
func (r *Registry) Subscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, o)
}

// Unsubscribe removes an observer.
func (r *Registry) Unsubscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	for i, obs := range r.observers {
		if obs == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

func (r *Registry) notify(e Event) {
	r.obsMu.RLock()
	defer r.obsMu.RUnlock()
	for _, o := range r.observers {
		o.OnRegistryEvent(e)
	}
}
