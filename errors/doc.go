// Package errors provides structured error types for the kestrel library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes a field path and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseParams, errors.KindInvalidData).
//		Path("params", "limit").
//		Detail("expected number").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.PhaseRegistry, "database", id)
//	err := errors.OpenFailed(path, cause)
//
// All errors implement the standard error interface and support errors.Is/As.
// Every failure surfaced across the foreign boundary is rendered from one of
// these values, so the message format here is the boundary's error text.
package errors
