// Package pixbuf addresses a locked rectangle of texture memory.
//
// A Region is only valid between the Lock and Unlock that produced it.
package pixbuf

import (
	"encoding/binary"
	"image"

	"github.com/rook-computer/overlay/internal/palette"
)

const bytesPerPixel = 4

// Region is a locked window onto packed-pixel memory. pix[0] is the first
// byte of pixel (0, 0) of the window; rows are pitch bytes apart.
type Region struct {
	pix    []byte
	pitch  int
	width  int
	height int
	origin image.Point
}

// New wraps pix as a width x height region whose rows start every pitch
// bytes. origin is the position of the region's (0, 0) in texture space.
func New(pix []byte, pitch, width, height int, origin image.Point) *Region {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Region{pix: pix, pitch: pitch, width: width, height: height, origin: origin}
}

func (r *Region) Pitch() int          { return r.pitch }
func (r *Region) Width() int          { return r.width }
func (r *Region) Height() int         { return r.height }
func (r *Region) MaxX() int           { return r.width - 1 }
func (r *Region) MaxY() int           { return r.height - 1 }
func (r *Region) Origin() image.Point { return r.origin }

// Bounds returns the locked rectangle in texture coordinates.
func (r *Region) Bounds() image.Rectangle {
	return image.Rectangle{Min: r.origin, Max: r.origin.Add(image.Pt(r.width, r.height))}
}

// Contains reports whether the region-local (x, y) lies inside the region.
func (r *Region) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x <= r.MaxX() && y <= r.MaxY()
}

// Set writes p at region-local (x, y), or does nothing when (x, y) is
// outside the region.
func (r *Region) Set(x, y int, p palette.Packed) {
	if x >= 0 && y >= 0 && x <= r.MaxX() && y <= r.MaxY() {
		binary.LittleEndian.PutUint32(r.pix[y*r.pitch+x*bytesPerPixel:], uint32(p))
	}
}

// SetUnchecked writes p at region-local (x, y) without a bounds test.
// The caller must already know (x, y) is inside the region.
func (r *Region) SetUnchecked(x, y int, p palette.Packed) {
	binary.LittleEndian.PutUint32(r.pix[y*r.pitch+x*bytesPerPixel:], uint32(p))
}

// At reads the pixel at region-local (x, y).
func (r *Region) At(x, y int) (palette.Packed, bool) {
	if !r.Contains(x, y) {
		return 0, false
	}
	return palette.Packed(binary.LittleEndian.Uint32(r.pix[y*r.pitch+x*bytesPerPixel:])), true
}

// Row returns the width*4 bytes of row y.
func (r *Region) Row(y int) []byte {
	off := y * r.pitch
	return r.pix[off : off+r.width*bytesPerPixel]
}
