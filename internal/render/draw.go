package render

import (
	"fmt"
	"image"

	"github.com/rook-computer/overlay/internal/palette"
	"github.com/rook-computer/overlay/internal/pixbuf"
	"github.com/rook-computer/overlay/internal/raster"
)

// lockDraw locks the part of bounds inside the surface and runs fn on it.
// Nothing is locked when that part is empty.
func (r *Renderer) lockDraw(bounds image.Rectangle, fn func(*pixbuf.Region)) error {
	if r.state != ready {
		return ErrNotReady
	}
	bounds = bounds.Intersect(image.Rect(0, 0, r.width, r.height))
	if bounds.Empty() {
		return nil
	}
	reg, err := r.staging.Lock(bounds, 0)
	if err != nil {
		return fmt.Errorf("lock staging: %w", err)
	}
	defer r.staging.Unlock()
	fn(reg)
	return nil
}

func (r *Renderer) SetPixel(p image.Point, c palette.Color) error {
	return r.lockDraw(image.Rect(p.X, p.Y, p.X+1, p.Y+1), func(reg *pixbuf.Region) {
		raster.Point(reg, p, palette.PackedFor(c))
	})
}

func (r *Renderer) DrawLine(p1, p2 image.Point, c palette.Color, thickness int, style raster.LineStyle) error {
	return r.lockDraw(raster.LineBounds(p1, p2, thickness), func(reg *pixbuf.Region) {
		raster.Line(reg, p1, p2, palette.PackedFor(c), thickness, style)
	})
}

// DrawRect draws the w x h box with topLeft as its first pixel.
func (r *Renderer) DrawRect(topLeft image.Point, w, h int, c palette.Color, fill bool, thickness int) error {
	return r.lockDraw(raster.RectBounds(topLeft, w, h), func(reg *pixbuf.Region) {
		raster.Rect(reg, topLeft, w, h, palette.PackedFor(c), fill, thickness)
	})
}

func (r *Renderer) DrawCircle(centre image.Point, radius int, c palette.Color, fill bool, thickness int) error {
	return r.lockDraw(raster.CircleBounds(centre, radius), func(reg *pixbuf.Region) {
		raster.Circle(reg, centre, radius, palette.PackedFor(c), fill, thickness)
	})
}

func (r *Renderer) DrawCross(centre image.Point, size int, c palette.Color, thickness int) error {
	return r.lockDraw(raster.CrossBounds(centre, size, thickness), func(reg *pixbuf.Region) {
		raster.Cross(reg, centre, size, palette.PackedFor(c), thickness)
	})
}

// DrawArrow draws a shaft from -> to with a head at to. headLen runs back
// along the shaft and headHalfWidth across it.
func (r *Renderer) DrawArrow(from, to image.Point, c palette.Color, headLen, headHalfWidth, thickness int) error {
	return r.lockDraw(raster.ArrowBounds(from, to, headLen, headHalfWidth, thickness), func(reg *pixbuf.Region) {
		raster.Arrow(reg, from, to, palette.PackedFor(c), headLen, headHalfWidth, thickness)
	})
}

// Clear fills the whole surface with c.
func (r *Renderer) Clear(c palette.Color) error {
	return r.lockDraw(image.Rect(0, 0, r.width, r.height), func(reg *pixbuf.Region) {
		raster.Clear(reg, palette.PackedFor(c))
	})
}

// DrawText draws s onto the display surface with its top-left corner at p.
// The text never reaches staging, so GetImage does not return it and the
// next Render covers it.
func (r *Renderer) DrawText(p image.Point, s string, c palette.Color) error {
	if r.state != ready {
		return ErrNotReady
	}
	if err := r.font.Draw(r.dev.Surface(), r.surfacePoint(p), s, palette.Host(c)); err != nil {
		return fmt.Errorf("draw text: %w", err)
	}
	return nil
}

// MeasureText returns the size s would occupy, in surface pixels.
func (r *Renderer) MeasureText(s string) (image.Point, error) {
	if r.state != ready {
		return image.Point{}, ErrNotReady
	}
	return r.font.Measure(s), nil
}

// surfacePoint maps a logical point onto the display surface, which the
// sprite stretches the logical rectangle over.
func (r *Renderer) surfacePoint(p image.Point) image.Point {
	sb := r.dev.Surface().Bounds()
	return image.Pt(
		sb.Min.X+p.X*sb.Dx()/r.width,
		sb.Min.Y+p.Y*sb.Dy()/r.height,
	)
}
