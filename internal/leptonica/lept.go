package leptonica

/*
#cgo LDFLAGS: -llept
#include <stdlib.h>
#include <leptonica/allheaders.h>
*/
import "C"

import "unsafe"

// Version returns the version string reported by the linked Leptonica.
func Version() string {
	v := C.getLeptonicaVersion()
	if v == nil {
		return ""
	}
	defer C.lept_free(unsafe.Pointer(v))
	return C.GoString(v)
}

// SetQuiet suppresses Leptonica's diagnostic messages on stderr. Failed reads
// of missing or corrupt files print errors there before returning null.
func SetQuiet(quiet bool) {
	if quiet {
		C.setMsgSeverity(C.L_SEVERITY_NONE)
		return
	}
	C.setMsgSeverity(C.L_SEVERITY_INFO)
}
