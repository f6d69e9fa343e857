package app

import (
	"errors"
	"fmt"
	"image"

	"github.com/rook-computer/overlay/internal/palette"
	"github.com/rook-computer/overlay/internal/raster"
	"github.com/rook-computer/overlay/internal/render/layout"
	"github.com/rook-computer/overlay/internal/state"
)

// Drawer is the part of the renderer a scene draws through.
type Drawer interface {
	SetPixel(p image.Point, c palette.Color) error
	DrawLine(p1, p2 image.Point, c palette.Color, thickness int, style raster.LineStyle) error
	DrawRect(topLeft image.Point, w, h int, c palette.Color, fill bool, thickness int) error
	DrawCircle(centre image.Point, radius int, c palette.Color, fill bool, thickness int) error
	DrawCross(centre image.Point, size int, c palette.Color, thickness int) error
	DrawArrow(from, to image.Point, c palette.Color, headLen, headHalfWidth, thickness int) error
}

// TextDrawer draws labels onto the display surface.
type TextDrawer interface {
	DrawText(p image.Point, s string, c palette.Color) error
	MeasureText(s string) (image.Point, error)
	Size() (width, height int)
}

// RenderScene draws every shape of scene into staging, in order.
func RenderScene(d Drawer, scene state.Scene) error {
	var errs []error
	for i, s := range scene.Shapes {
		if err := drawShape(d, s); err != nil {
			errs = append(errs, fmt.Errorf("shape %d (%s): %w", i, s.Kind, err))
		}
	}
	return errors.Join(errs...)
}

func drawShape(d Drawer, s state.Shape) error {
	switch s.Kind {
	case state.ShapePoint:
		return d.SetPixel(s.From, s.Color)
	case state.ShapeLine:
		return d.DrawLine(s.From, s.To, s.Color, s.Thickness, s.Style)
	case state.ShapeRect:
		return d.DrawRect(s.From, s.W, s.H, s.Color, s.Fill, s.Thickness)
	case state.ShapeCircle:
		return d.DrawCircle(s.From, s.Size, s.Color, s.Fill, s.Thickness)
	case state.ShapeCross:
		return d.DrawCross(s.From, s.Size, s.Color, s.Thickness)
	case state.ShapeArrow:
		return d.DrawArrow(s.From, s.To, s.Color, s.Size, s.W, s.Thickness)
	}
	return fmt.Errorf("unknown shape kind %d", s.Kind)
}

// DrawLabels draws the scene labels onto the display. It must run after
// every Render since presenting replaces the surface.
func DrawLabels(d TextDrawer, labels []state.Label) error {
	var errs []error
	for _, l := range labels {
		if err := d.DrawText(l.At, l.Text, l.Color); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

const hudPadding = 8

// DrawHUD writes a status line in the bottom-left corner.
func DrawHUD(d TextDrawer, line string, c palette.Color) error {
	sz, err := d.MeasureText(line)
	if err != nil {
		return err
	}
	w, h := d.Size()
	box := layout.AnchorBottomLeft(layout.Inset(image.Rect(0, 0, w, h), hudPadding), sz.X, sz.Y)
	return d.DrawText(box.Min, line, c)
}
