package leptonica

/*
#include <leptonica/allheaders.h>
*/
import "C"

import (
	"fmt"
	"image"
	"iter"
	"runtime"
	"unsafe"

	"github.com/ironsheep/leptess/internal/handle"
)

// Boxa is an owned, read-only, ordered collection of rectangles backed by a
// Leptonica BOXA. Its length is fixed when it is created.
type Boxa struct {
	own *handle.Owner[C.BOXA]
	n   int
}

func destroyBoxa(b *C.BOXA) {
	C.boxaDestroy(&b)
}

func wrapBoxa(b *C.BOXA) *Boxa {
	return &Boxa{
		own: handle.New("boxa", b, destroyBoxa),
		n:   int(C.boxaGetCount(b)),
	}
}

// WrapBoxa takes ownership of a native BOXA produced by another cgo package
// (the OCR engine). A nil pointer yields nil.
func WrapBoxa(ptr unsafe.Pointer) *Boxa {
	if ptr == nil {
		return nil
	}
	return wrapBoxa((*C.BOXA)(ptr))
}

// NewBoxa builds a collection holding clones of boxes, in order. The caller
// keeps ownership of the boxes passed in.
func NewBoxa(boxes ...*Box) *Boxa {
	ba := C.boxaCreate(C.l_int32(len(boxes)))
	if ba == nil {
		handle.Violation("boxaCreate", "returned null array")
	}
	for i, b := range boxes {
		if C.boxaAddBox(ba, b.raw(), C.L_CLONE) != 0 {
			C.boxaDestroy(&ba)
			handle.Violation("boxaAddBox", "failed to add box %d", i)
		}
	}
	runtime.KeepAlive(boxes)
	return wrapBoxa(ba)
}

// Len returns the number of rectangles. A closed or drained collection
// reports zero.
func (b *Boxa) Len() int {
	if b == nil || !b.own.Valid() {
		return 0
	}
	return b.n
}

// Get returns an independently owned clone of the box at index i.
func (b *Boxa) Get(i int) (*Box, error) {
	if i < 0 || i >= b.Len() {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, b.Len())
	}
	return b.clone(i), nil
}

func (b *Boxa) clone(i int) *Box {
	box := C.boxaGetBox(b.own.Get(), C.l_int32(i), C.L_CLONE)
	runtime.KeepAlive(b)
	if box == nil {
		handle.Violation("boxaGetBox", "null clone at index %d of %d", i, b.n)
	}
	return wrapBox("boxaGetBox", box)
}

// All is a borrowing traversal: it yields (index, clone) pairs in ascending
// order and leaves b usable afterward. Each yielded Box must be closed by
// the caller.
func (b *Boxa) All() iter.Seq2[int, *Box] {
	return func(yield func(int, *Box) bool) {
		n := b.Len()
		for i := 0; i < n; i++ {
			if !yield(i, b.clone(i)) {
				return
			}
		}
	}
}

// Drain is a consuming traversal. Ownership of the native collection moves
// into the returned sequence immediately, so b is empty once Drain returns.
// The collection is released when the loop completes or stops early; ranging
// over the sequence a second time yields nothing. Draining a closed or
// already drained collection yields nothing.
func (b *Boxa) Drain() iter.Seq[*Box] {
	if b == nil || !b.own.Valid() {
		return func(func(*Box) bool) {}
	}
	owned := &Boxa{own: handle.New("boxa", b.own.Take(), destroyBoxa), n: b.n}
	b.n = 0
	return func(yield func(*Box) bool) {
		defer owned.Close()
		for i := 0; i < owned.Len(); i++ {
			if !yield(owned.clone(i)) {
				return
			}
		}
	}
}

// Rects returns the geometry of every box without handing out clones.
func (b *Boxa) Rects() []image.Rectangle {
	out := make([]image.Rectangle, 0, b.Len())
	for _, box := range b.All() {
		out = append(out, box.Rect())
		box.Close()
	}
	return out
}

// Close releases the collection. Boxes previously read from it stay valid.
func (b *Boxa) Close() {
	if b == nil {
		return
	}
	b.own.Release()
}
