package registry

// Handle is an opaque reference to an open database instance.
// Handles are small non-negative integers; the first allocation is 0.
// Negative values are never issued and always invalid.
type Handle int32

// Instance is the resource owned by a registry entry. The registry is the
// sole owner: it calls Close exactly once, after the last borrow returns.
type Instance interface {
	Close() error
}

// Event types for registry lifecycle notifications.
type EventType uint8

const (
	// EventOpened fires when a new handle is allocated.
	EventOpened EventType = iota
	// EventClosed fires when a handle is marked closed. Teardown may still
	// be pending if borrows are outstanding.
	EventClosed
	// EventDropped fires when the instance has been physically torn down.
	EventDropped
)

// Event represents a registry lifecycle event.
type Event struct {
	Err    error
	Handle Handle
	Type   EventType
}

// Observer receives notifications about registry lifecycle events.
type Observer interface {
	OnRegistryEvent(Event)
}
