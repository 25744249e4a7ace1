package leptonica

import (
	"errors"
	"image"
	"testing"

	"github.com/ironsheep/leptess/internal/handle"
)

// buildBoxa creates a collection of n boxes with distinct geometry and
// returns the expected rectangles in index order.
func buildBoxa(t *testing.T, n int) (*Boxa, []image.Rectangle) {
	t.Helper()

	boxes := make([]*Box, 0, n)
	want := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		b := mustBox(t, i*10, i*5, i+1, 2*i+1)
		boxes = append(boxes, b)
		want = append(want, b.Rect())
	}
	ba := NewBoxa(boxes...)
	for _, b := range boxes {
		b.Close()
	}
	return ba, want
}

func TestBoxa_Len(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		ba, _ := buildBoxa(t, n)
		if ba.Len() != n {
			t.Errorf("Len: got %d, want %d", ba.Len(), n)
		}
		ba.Close()
		if ba.Len() != 0 {
			t.Errorf("Len after Close: got %d, want 0", ba.Len())
		}
	}
}

func TestBoxa_Get(t *testing.T) {
	ba, want := buildBoxa(t, 4)
	defer ba.Close()

	for i, w := range want {
		b, err := ba.Get(i)
		if err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
		if b.Rect() != w {
			t.Errorf("Get(%d): got %v, want %v", i, b.Rect(), w)
		}
		b.Close()
	}
}

func TestBoxa_GetOutOfRange(t *testing.T) {
	ba, _ := buildBoxa(t, 3)
	defer ba.Close()

	for _, i := range []int{-1, 3, 100} {
		b, err := ba.Get(i)
		if err == nil {
			b.Close()
			t.Fatalf("Get(%d): expected error", i)
		}
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Get(%d): error should wrap ErrIndexOutOfRange, got %v", i, err)
		}
	}
}

func TestBoxa_BorrowingTraversal(t *testing.T) {
	ba, want := buildBoxa(t, 5)
	defer ba.Close()

	var got []image.Rectangle
	next := 0
	for i, b := range ba.All() {
		if i != next {
			t.Errorf("index: got %d, want %d", i, next)
		}
		next++
		got = append(got, b.Rect())
		b.Close()
	}

	assertRects(t, got, want)

	// The collection is still usable afterward.
	if ba.Len() != 5 {
		t.Errorf("Len after All: got %d, want 5", ba.Len())
	}
	assertRects(t, ba.Rects(), want)
}

func TestBoxa_ConsumingTraversal(t *testing.T) {
	base := handle.Live()
	ba, want := buildBoxa(t, 5)

	seq := ba.Drain()
	if ba.Len() != 0 {
		t.Errorf("Len after Drain: got %d, want 0", ba.Len())
	}

	var got []image.Rectangle
	for b := range seq {
		got = append(got, b.Rect())
		b.Close()
	}
	assertRects(t, got, want)

	count := 0
	for b := range seq {
		count++
		b.Close()
	}
	if count != 0 {
		t.Errorf("second traversal yielded %d boxes, want 0", count)
	}

	ba.Close()
	if handle.Live() != base {
		t.Errorf("live handles: got %d, want %d", handle.Live(), base)
	}
}

func TestBoxa_DrainAfterReleaseIsEmpty(t *testing.T) {
	drained, _ := buildBoxa(t, 3)
	for b := range drained.Drain() {
		b.Close()
	}
	closed, _ := buildBoxa(t, 3)
	closed.Close()

	for name, ba := range map[string]*Boxa{"drained": drained, "closed": closed} {
		count := 0
		for b := range ba.Drain() {
			count++
			b.Close()
		}
		if count != 0 {
			t.Errorf("%s: Drain yielded %d boxes, want 0", name, count)
		}
		if ba.Len() != 0 {
			t.Errorf("%s: Len = %d, want 0", name, ba.Len())
		}
	}
}

func TestBoxa_TraversalsAgree(t *testing.T) {
	ba, _ := buildBoxa(t, 6)

	var borrowed []image.Rectangle
	for _, b := range ba.All() {
		borrowed = append(borrowed, b.Rect())
		b.Close()
	}

	var consumed []image.Rectangle
	for b := range ba.Drain() {
		consumed = append(consumed, b.Rect())
		b.Close()
	}

	assertRects(t, consumed, borrowed)
}

func TestBoxa_DrainEarlyBreakReleases(t *testing.T) {
	base := handle.Live()
	ba, want := buildBoxa(t, 5)

	var first *Box
	for b := range ba.Drain() {
		first = b
		break
	}

	// Only the yielded clone is still alive.
	if handle.Live() != base+1 {
		t.Errorf("live handles after break: got %d, want %d", handle.Live(), base+1)
	}
	if first.Rect() != want[0] {
		t.Errorf("first: got %v, want %v", first.Rect(), want[0])
	}
	first.Close()

	if handle.Live() != base {
		t.Errorf("live handles: got %d, want %d", handle.Live(), base)
	}
}

func TestBoxa_ClonesOutliveCollection(t *testing.T) {
	ba, want := buildBoxa(t, 3)

	var clones []*Box
	for _, b := range ba.All() {
		clones = append(clones, b)
	}
	ba.Close()

	for i, c := range clones {
		if c.Rect() != want[i] {
			t.Errorf("clone %d: got %v, want %v", i, c.Rect(), want[i])
		}
		c.Close()
	}
}

func TestBoxa_ClosingOneCloneKeepsOthers(t *testing.T) {
	ba, want := buildBoxa(t, 2)
	defer ba.Close()

	a, _ := ba.Get(1)
	b, _ := ba.Get(1)
	a.Close()

	if b.Rect() != want[1] {
		t.Errorf("got %v, want %v", b.Rect(), want[1])
	}
	b.Close()

	c, _ := ba.Get(1)
	defer c.Close()
	if c.Rect() != want[1] {
		t.Errorf("collection damaged by closing a clone: %v", c.Rect())
	}
}

func TestWrapBoxa_Nil(t *testing.T) {
	if WrapBoxa(nil) != nil {
		t.Error("WrapBoxa(nil) should return nil")
	}
	var ba *Boxa
	if ba.Len() != 0 {
		t.Error("nil Boxa should have zero length")
	}
	ba.Close()
}

func assertRects(t *testing.T, got, want []image.Rectangle) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
