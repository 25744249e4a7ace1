package leptonica

import (
	"errors"
	"image"
	"testing"

	"github.com/ironsheep/leptess/internal/handle"
)

func mustBox(t *testing.T, x, y, w, h int) *Box {
	t.Helper()
	b, err := NewBox(x, y, w, h)
	if err != nil {
		t.Fatalf("NewBox(%d,%d,%d,%d): %v", x, y, w, h, err)
	}
	return b
}

func TestNewBox_ReadBack(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h int
	}{
		{"unit", 0, 0, 1, 1},
		{"origin", 0, 0, 100, 50},
		{"offset", 10, 20, 30, 40},
		{"wide", 5, 7, 1920, 1},
		{"tall", 0, 3, 1, 1080},
		{"large", 10000, 20000, 300, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBox(t, tt.x, tt.y, tt.w, tt.h)
			defer b.Close()

			if b.X() != tt.x || b.Y() != tt.y || b.W() != tt.w || b.H() != tt.h {
				t.Errorf("got (%d,%d,%d,%d), want (%d,%d,%d,%d)",
					b.X(), b.Y(), b.W(), b.H(), tt.x, tt.y, tt.w, tt.h)
			}
			want := image.Rect(tt.x, tt.y, tt.x+tt.w, tt.y+tt.h)
			if b.Rect() != want {
				t.Errorf("Rect: got %v, want %v", b.Rect(), want)
			}
		})
	}
}

func TestNewBox_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h int
	}{
		{"zero width", 0, 0, 0, 10},
		{"zero height", 0, 0, 10, 0},
		{"both zero", 0, 0, 0, 0},
		{"negative width", 0, 0, -5, 10},
		{"negative height", 0, 0, 5, -10},
		{"negative x", -1, 0, 5, 5},
		{"negative y", 0, -1, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBox(tt.x, tt.y, tt.w, tt.h)
			if err == nil {
				b.Close()
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrGeometryInvalid) {
				t.Errorf("error should wrap ErrGeometryInvalid, got %v", err)
			}
		})
	}
}

func TestNewBoxFromRect(t *testing.T) {
	b, err := NewBoxFromRect(image.Rect(40, 30, 10, 20))
	if err != nil {
		t.Fatalf("NewBoxFromRect: %v", err)
	}
	defer b.Close()

	if b.Rect() != image.Rect(10, 20, 40, 30) {
		t.Errorf("got %v", b.Rect())
	}
}

func TestBox_CloneOutlivesOriginal(t *testing.T) {
	base := handle.Live()

	orig := mustBox(t, 1, 2, 3, 4)
	clone := orig.Clone()
	orig.Close()

	if clone.X() != 1 || clone.Y() != 2 || clone.W() != 3 || clone.H() != 4 {
		t.Errorf("clone geometry changed after original closed: %v", clone)
	}
	clone.Close()

	if handle.Live() != base {
		t.Errorf("live handles: got %d, want %d", handle.Live(), base)
	}
}

func TestBox_CloseTwice(t *testing.T) {
	b := mustBox(t, 0, 0, 2, 2)
	b.Close()
	b.Close()

	var nilBox *Box
	nilBox.Close()

	if b.String() != "Box(closed)" {
		t.Errorf("String after close: %q", b.String())
	}
}

func TestBox_UseAfterClosePanics(t *testing.T) {
	b := mustBox(t, 0, 0, 2, 2)
	b.Close()

	defer func() {
		r := recover()
		var inv *handle.InvariantError
		err, ok := r.(error)
		if !ok || !errors.As(err, &inv) {
			t.Fatalf("expected *handle.InvariantError panic, got %v", r)
		}
	}()
	b.X()
}
