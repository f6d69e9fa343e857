package pixbuf

import (
	"bytes"
	"image"
	"testing"

	"github.com/rook-computer/overlay/internal/palette"
)

// newPadded returns a region whose pitch is wider than its rows.
func newPadded(w, h, pitch int) (*Region, []byte) {
	pix := make([]byte, pitch*h)
	for i := range pix {
		pix[i] = 0xAB
	}
	return New(pix, pitch, w, h, image.Point{}), pix
}

func TestSetOutOfBoundsLeavesBuffer(t *testing.T) {
	r, pix := newPadded(8, 6, 64)
	before := append([]byte(nil), pix...)

	red := palette.PackedFor(palette.Red)
	oob := []struct{ x, y int }{
		{-1, 0}, {0, -1}, {8, 0}, {0, 6}, {8, 6},
		{-100, -100}, {100, 3}, {3, 100},
	}
	for _, c := range oob {
		r.Set(c.x, c.y, red)
	}
	if !bytes.Equal(pix, before) {
		t.Fatal("out-of-bounds Set modified the buffer")
	}
}

func TestSetMatchesUnchecked(t *testing.T) {
	a, pixA := newPadded(8, 6, 48)
	b, pixB := newPadded(8, 6, 48)
	blue := palette.PackedFor(palette.Blue)
	for y := 0; y <= a.MaxY(); y++ {
		for x := 0; x <= a.MaxX(); x++ {
			a.Set(x, y, blue)
			b.SetUnchecked(x, y, blue)
		}
	}
	if !bytes.Equal(pixA, pixB) {
		t.Fatal("Set and SetUnchecked produced different buffers")
	}
}

func TestOffsetUsesPitch(t *testing.T) {
	r, pix := newPadded(4, 3, 40)
	r.Set(2, 1, 0x11223344)

	off := 1*40 + 2*4
	if got := pix[off : off+4]; !bytes.Equal(got, []byte{0x44, 0x33, 0x22, 0x11}) {
		t.Errorf("bytes at %d = % x, want 44 33 22 11", off, got)
	}
	if got, ok := r.At(2, 1); !ok || got != 0x11223344 {
		t.Errorf("At(2,1) = %#08x, %v", got, ok)
	}
	// Row padding beyond width*4 stays untouched.
	for i := 1*40 + 16; i < 2*40; i++ {
		if pix[i] != 0xAB {
			t.Fatalf("padding byte %d overwritten", i)
		}
	}
}

func TestBoundsAndRow(t *testing.T) {
	r := New(make([]byte, 32*4), 32, 5, 4, image.Pt(10, 20))
	if got, want := r.Bounds(), image.Rect(10, 20, 15, 24); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
	if got := len(r.Row(3)); got != 20 {
		t.Errorf("len(Row(3)) = %d, want 20", got)
	}
	if _, ok := r.At(5, 0); ok {
		t.Error("At(5,0) reported in bounds")
	}
}

func TestNegativeSizeIsEmpty(t *testing.T) {
	r := New(nil, 0, -3, -1, image.Point{})
	if r.Width() != 0 || r.Height() != 0 {
		t.Errorf("size = %dx%d, want 0x0", r.Width(), r.Height())
	}
	r.Set(0, 0, 1) // must not panic
}
