package gfx

import (
	"fmt"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Blitter copies a rectangle of a presentable texture onto a surface,
// scaling with nearest-neighbour sampling when the sizes differ. It keeps
// one scratch image between calls.
type Blitter struct {
	scratch *image.RGBA
}

// Blit maps src of tex onto dst.Bounds().
func (b *Blitter) Blit(dst draw.Image, tex *Texture, src image.Rectangle) error {
	switch {
	case tex == nil || tex.released:
		return ErrReleased
	case tex.usage != UsagePresentable:
		return fmt.Errorf("draw %s texture: %w", tex.usage, ErrUsage)
	}
	src = src.Intersect(tex.Bounds())
	if src.Empty() {
		return nil
	}
	if b.scratch == nil || b.scratch.Bounds().Size() != src.Size() {
		b.scratch = image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
	}
	unpackRect(b.scratch, tex, src)

	dr := dst.Bounds()
	if dr.Size() == src.Size() {
		draw.Draw(dst, dr, b.scratch, image.Point{}, draw.Src)
		return nil
	}
	xdraw.NearestNeighbor.Scale(dst, dr, b.scratch, b.scratch.Bounds(), xdraw.Src, nil)
	return nil
}

// unpackRect swizzles B,G,R,A texture bytes into R,G,B scratch rows. The
// alpha byte is reserved on the display side, so output is opaque.
func unpackRect(dst *image.RGBA, tex *Texture, src image.Rectangle) {
	w := src.Dx()
	for y := 0; y < src.Dy(); y++ {
		in := tex.row(src.Min.Y + y)[src.Min.X*bytesPerPixel:]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w*bytesPerPixel]
		for i := 0; i < len(out); i += bytesPerPixel {
			out[i+0] = in[i+2]
			out[i+1] = in[i+1]
			out[i+2] = in[i+0]
			out[i+3] = 0xFF
		}
	}
}
