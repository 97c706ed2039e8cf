package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"unicode/utf8"

	"github.com/kestreldb/kestrel/errors"
)

// inbound copies a caller-owned, null-terminated C string into Go memory
// and validates it as UTF-8. The caller's buffer is never retained past
// the call. A NULL pointer or malformed UTF-8 is an error, not a crash.
func inbound(s *C.char, phase errors.Phase, what string) (string, error) {
	if s == nil {
		return "", errors.InvalidInput(phase, what+" is null")
	}
	g := C.GoString(s)
	if !utf8.ValidString(g) {
		return "", errors.InvalidUTF8(phase, what)
	}
	return g, nil
}

// outbound allocates a null-terminated copy of s with the C allocator and
// transfers ownership to the caller. The only legal way to reclaim it is
// kestrel_free_str.
func outbound(s string) *C.char {
	return C.CString(s)
}
