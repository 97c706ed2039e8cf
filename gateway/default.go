package gateway

// Default is the process-wide gateway backing the foreign-function
// boundary, which has no object to hang per-caller state on. Go embedders
// normally construct their own Gateway (or use the root kestrel package)
// instead.
var Default = New()
