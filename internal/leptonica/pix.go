package leptonica

/*
#include <stdlib.h>
#include <leptonica/allheaders.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"unsafe"

	"github.com/ironsheep/leptess/internal/handle"
)

// Pix is an owned, decoded raster image backed by a Leptonica PIX.
type Pix struct {
	own *handle.Owner[C.PIX]
}

func destroyPix(p *C.PIX) {
	C.pixDestroy(&p)
}

func wrapPix(p *C.PIX) *Pix {
	return &Pix{own: handle.New("pix", p, destroyPix)}
}

// Read decodes the image file at path. Missing, unreadable and corrupt files
// all yield an error wrapping ErrResourceUnavailable.
func Read(path string) (*Pix, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	p := C.pixRead(cpath)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrResourceUnavailable, path)
	}
	return wrapPix(p), nil
}

// ReadMem decodes an encoded image held in memory.
func ReadMem(data []byte) (*Pix, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrResourceUnavailable)
	}
	p := C.pixReadMem((*C.l_uint8)(unsafe.Pointer(&data[0])), C.size_t(len(data)))
	runtime.KeepAlive(data)
	if p == nil {
		return nil, fmt.Errorf("%w: undecodable %d-byte buffer", ErrResourceUnavailable, len(data))
	}
	return wrapPix(p), nil
}

// Width returns the raster width in pixels.
func (p *Pix) Width() int {
	w := C.pixGetWidth(p.own.Get())
	runtime.KeepAlive(p)
	return int(w)
}

// Height returns the raster height in pixels.
func (p *Pix) Height() int {
	h := C.pixGetHeight(p.own.Get())
	runtime.KeepAlive(p)
	return int(h)
}

// Depth returns the bits per pixel (1, 2, 4, 8, 16 or 32).
func (p *Pix) Depth() int {
	d := C.pixGetDepth(p.own.Get())
	runtime.KeepAlive(p)
	return int(d)
}

// Resolution returns the horizontal and vertical resolution recorded in the
// image header, in pixels per inch. Zero means unknown.
func (p *Pix) Resolution() (x, y int) {
	var xres, yres C.l_int32
	C.pixGetResolution(p.own.Get(), &xres, &yres)
	runtime.KeepAlive(p)
	return int(xres), int(yres)
}

// Bounds returns the image rectangle anchored at the origin.
func (p *Pix) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width(), p.Height())
}

// Clip returns a new, independent image covering the part of p inside box.
// A box that does not overlap the image is rejected with ErrGeometryInvalid.
func (p *Pix) Clip(box *Box) (*Pix, error) {
	if !box.Rect().Overlaps(p.Bounds()) {
		return nil, fmt.Errorf("%w: %s outside %dx%d image", ErrGeometryInvalid, box, p.Width(), p.Height())
	}
	c := C.pixClipRectangle(p.own.Get(), box.raw(), nil)
	runtime.KeepAlive(p)
	runtime.KeepAlive(box)
	if c == nil {
		handle.Violation("pixClipRectangle", "null result for %s", box)
	}
	return wrapPix(c), nil
}

// Clone returns a new owner of the same native image. Leptonica counts the
// reference; the pixels are shared, not copied.
func (p *Pix) Clone() *Pix {
	c := C.pixClone(p.own.Get())
	runtime.KeepAlive(p)
	if c == nil {
		handle.Violation("pixClone", "returned null")
	}
	return wrapPix(c)
}

// Write encodes the image to path using format.
func (p *Pix) Write(path string, format Format) error {
	if !format.Valid() {
		return fmt.Errorf("%w: unsupported format %v", ErrWriteFailed, format)
	}
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	status := C.pixWrite(cpath, p.own.Get(), C.l_int32(format))
	runtime.KeepAlive(p)
	if status != 0 {
		return fmt.Errorf("%w: %s as %s (status %d)", ErrWriteFailed, path, format, int(status))
	}
	return nil
}

// EncodeMem encodes the image into a new byte slice.
func (p *Pix) EncodeMem(format Format) ([]byte, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: unsupported format %v", ErrWriteFailed, format)
	}
	var data *C.l_uint8
	var size C.size_t
	status := C.pixWriteMem(&data, &size, p.own.Get(), C.l_int32(format))
	runtime.KeepAlive(p)
	if data != nil {
		defer C.lept_free(unsafe.Pointer(data))
	}
	if status != 0 || data == nil {
		return nil, fmt.Errorf("%w: encode as %s (status %d)", ErrWriteFailed, format, int(status))
	}
	return C.GoBytes(unsafe.Pointer(data), C.int(size)), nil
}

// Raw exposes the native PIX pointer to sibling cgo packages. The pointer is
// only valid while p is open; callers must keep p reachable for the duration
// of the foreign call.
func (p *Pix) Raw() unsafe.Pointer {
	return unsafe.Pointer(p.own.Get())
}

// Closed reports whether the image has been released.
func (p *Pix) Closed() bool {
	return p == nil || !p.own.Valid()
}

// Close releases the caller's reference.
func (p *Pix) Close() {
	if p == nil {
		return
	}
	p.own.Release()
}

// IsUnavailable reports whether err came from a failed image read.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrResourceUnavailable)
}
