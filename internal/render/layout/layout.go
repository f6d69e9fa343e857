// Package layout places rectangles inside the logical canvas.
package layout

import "image"

// Inset shrinks rect by paddingPx on all sides.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	out := image.Rect(rect.Min.X+paddingPx, rect.Min.Y+paddingPx, rect.Max.X-paddingPx, rect.Max.Y-paddingPx)
	return Normalize(out)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

func clampSize(rect image.Rectangle, widthPx, heightPx int) (int, int) {
	widthPx = min(max(widthPx, 0), rect.Dx())
	heightPx = min(max(heightPx, 0), rect.Dy())
	return widthPx, heightPx
}

// AnchorTopLeft returns a rectangle of size (widthPx,heightPx) placed in the top-left of rect.
func AnchorTopLeft(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	widthPx, heightPx = clampSize(rect, widthPx, heightPx)
	return image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+widthPx, rect.Min.Y+heightPx)
}

// AnchorBottomLeft returns a rectangle of size (widthPx,heightPx) placed in the bottom-left of rect.
func AnchorBottomLeft(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	widthPx, heightPx = clampSize(rect, widthPx, heightPx)
	return image.Rect(rect.Min.X, rect.Max.Y-heightPx, rect.Min.X+widthPx, rect.Max.Y)
}

// Center returns a rectangle of size (widthPx,heightPx) centred in rect.
func Center(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	widthPx, heightPx = clampSize(rect, widthPx, heightPx)
	x := rect.Min.X + (rect.Dx()-widthPx)/2
	y := rect.Min.Y + (rect.Dy()-heightPx)/2
	return image.Rect(x, y, x+widthPx, y+heightPx)
}

// FitSquare returns the largest square that fits into rect, centred.
func FitSquare(rect image.Rectangle) image.Rectangle {
	rect = Normalize(rect)
	size := min(rect.Dx(), rect.Dy())
	return Center(rect, size, size)
}

// Fit returns the largest rectangle with the aspect ratio of size that
// fits in rect, centred.
func Fit(rect image.Rectangle, size image.Point) image.Rectangle {
	rect = Normalize(rect)
	if size.X <= 0 || size.Y <= 0 {
		return image.Rectangle{Min: rect.Min, Max: rect.Min}
	}
	w, h := rect.Dx(), rect.Dx()*size.Y/size.X
	if h > rect.Dy() {
		w, h = rect.Dy()*size.X/size.Y, rect.Dy()
	}
	return Center(rect, w, h)
}
