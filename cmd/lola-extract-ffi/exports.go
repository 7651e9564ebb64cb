//go:build cgo

package main

// #include <stdlib.h>
import "C"
import (
	"unsafe"

	"github.com/mvp-joe/lola-extract/internal/extract"
)

//export parse_specification
func parse_specification(path *C.char) *C.char {
	out, kind := extractForFFI(ffiExtractor, C.GoString(path))
	if kind != extract.FailureNone {
		return nil
	}
	return C.CString(out)
}

//export lola_extract
func lola_extract(path *C.char, failureKind *C.int) *C.char {
	out, kind := extractForFFI(ffiExtractor, C.GoString(path))
	if failureKind != nil {
		*failureKind = C.int(kind)
	}
	if kind != extract.FailureNone {
		return nil
	}
	return C.CString(out)
}

//export free_json_string
func free_json_string(s *C.char) {
	if s == nil {
		return
	}
	C.free(unsafe.Pointer(s))
}
