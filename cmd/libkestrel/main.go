// Command libkestrel is kestrel's C-compatible foreign-function surface.
//
// Build it as a shared or static library:
//
//	go build -buildmode=c-shared -o libkestrel.so ./cmd/libkestrel
//	go build -buildmode=c-archive -o libkestrel.a ./cmd/libkestrel
//
// The exported operations and the memory-ownership contract are documented
// in kestrel.h. Every string returned to the caller is allocated with the
// C allocator and must be released with kestrel_free_str exactly once.
package main

/*
#include <stdint.h>
#include <stdbool.h>
#include <stdlib.h>
*/
import "C"

import (
	"context"
	"unsafe"

	"github.com/kestreldb/kestrel/errors"
	"github.com/kestreldb/kestrel/gateway"
	"github.com/kestreldb/kestrel/registry"
)

// kestrel_open_db opens a database at a UTF-8 path and writes its handle
// through db_id. It returns NULL on success, or an error string the caller
// must free; on failure db_id is left untouched and no handle is
// allocated.
//
//export kestrel_open_db
func kestrel_open_db(path *C.char, dbID *C.int32_t) *C.char {
	p, err := inbound(path, errors.PhaseOpen, "path")
	if err != nil {
		return outbound(err.Error())
	}
	h, err := gateway.Default.Open(p)
	if err != nil {
		return outbound(err.Error())
	}
	if dbID != nil {
		*dbID = C.int32_t(h)
	}
	return nil
}

// kestrel_close_db closes a handle. It returns true if the database was
// open, false if it was already closed or never existed. Garbage handle
// values are safe.
//
//export kestrel_close_db
func kestrel_close_db(id C.int32_t) C.bool {
	return C.bool(gateway.Default.Close(registry.Handle(id)))
}

// kestrel_run_query executes a script against an open handle. params must
// be a JSON object in text form ("{}" when unused). The returned string is
// never NULL: it holds the JSON result when *errored is written false, or
// the error message when written true. The caller owns the string either
// way.
//
//export kestrel_run_query
func kestrel_run_query(id C.int32_t, script *C.char, params *C.char, errored *C.bool) *C.char {
	scriptStr, err := inbound(script, errors.PhaseScript, "script")
	if err != nil {
		return outboundOutcome(gateway.Outcome{Payload: err.Error(), Errored: true}, errored)
	}
	paramsStr, err := inbound(params, errors.PhaseParams, "params")
	if err != nil {
		return outboundOutcome(gateway.Outcome{Payload: err.Error(), Errored: true}, errored)
	}

	out := gateway.Default.Run(context.Background(), registry.Handle(id), scriptStr, paramsStr)
	return outboundOutcome(out, errored)
}

// kestrel_free_str releases a string previously returned by this library.
// NULL is a no-op. Must be called exactly once per returned string and
// never on memory from any other source.
//
//export kestrel_free_str
func kestrel_free_str(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

func outboundOutcome(out gateway.Outcome, errored *C.bool) *C.char {
	if errored != nil {
		*errored = C.bool(out.Errored)
	}
	return outbound(out.Payload)
}

// main is required for library build modes; it never runs for them.
func main() {}
