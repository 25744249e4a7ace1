package leptonica

/*
#include <leptonica/allheaders.h>
*/
import "C"

import (
	"fmt"
	"image"
	"runtime"

	"github.com/ironsheep/leptess/internal/handle"
)

// Box is an immutable rectangle backed by a Leptonica BOX.
type Box struct {
	own *handle.Owner[C.BOX]
}

func destroyBox(b *C.BOX) {
	C.boxDestroy(&b)
}

func wrapBox(op string, b *C.BOX) *Box {
	if b == nil {
		handle.Violation(op, "returned null box")
	}
	return &Box{own: handle.New("box", b, destroyBox)}
}

// NewBox creates a rectangle with its top-left corner at (x, y). The origin
// must be non-negative and both extents positive.
func NewBox(x, y, w, h int) (*Box, error) {
	if x < 0 || y < 0 || w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: box (%d,%d) %dx%d", ErrGeometryInvalid, x, y, w, h)
	}
	return wrapBox("boxCreate", C.boxCreate(C.l_int32(x), C.l_int32(y), C.l_int32(w), C.l_int32(h))), nil
}

// NewBoxFromRect creates a Box covering r.
func NewBoxFromRect(r image.Rectangle) (*Box, error) {
	r = r.Canon()
	return NewBox(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}

// Geometry returns x, y, width and height in one foreign call.
func (b *Box) Geometry() (x, y, w, h int) {
	var cx, cy, cw, ch C.l_int32
	C.boxGetGeometry(b.own.Get(), &cx, &cy, &cw, &ch)
	runtime.KeepAlive(b)
	return int(cx), int(cy), int(cw), int(ch)
}

// X returns the left edge.
func (b *Box) X() int {
	x, _, _, _ := b.Geometry()
	return x
}

// Y returns the top edge.
func (b *Box) Y() int {
	_, y, _, _ := b.Geometry()
	return y
}

// W returns the width.
func (b *Box) W() int {
	_, _, w, _ := b.Geometry()
	return w
}

// H returns the height.
func (b *Box) H() int {
	_, _, _, h := b.Geometry()
	return h
}

// Rect converts the box to an image.Rectangle (max edge exclusive).
func (b *Box) Rect() image.Rectangle {
	x, y, w, h := b.Geometry()
	return image.Rect(x, y, x+w, y+h)
}

// Clone returns a new owner of the same native box. Leptonica bumps the
// reference count; each clone must be closed.
func (b *Box) Clone() *Box {
	c := wrapBox("boxClone", C.boxClone(b.own.Get()))
	runtime.KeepAlive(b)
	return c
}

// Close releases the caller's reference.
func (b *Box) Close() {
	if b == nil {
		return
	}
	b.own.Release()
}

func (b *Box) String() string {
	if b == nil || !b.own.Valid() {
		return "Box(closed)"
	}
	x, y, w, h := b.Geometry()
	return fmt.Sprintf("Box(%d,%d %dx%d)", x, y, w, h)
}

func (b *Box) raw() *C.BOX {
	return b.own.Get()
}
