// Package termdev presents frames in a terminal. Each character cell shows
// two vertically stacked pixels: the upper one as the foreground of an
// upper-half-block rune, the lower one as the background.
//
// The surface is sized from the screen when the device opens. A terminal
// resize makes the buttons layer request a device reset, and the next Open
// picks up the new size.
package termdev

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/gdamore/tcell/v2"
	"github.com/rook-computer/overlay/internal/gfx"
)

const upperHalf = '▀'

var errNoScreen = errors.New("termdev: no screen")

// Handle wraps a tcell screen that the caller has already initialised and
// will finalise after the renderer is closed.
type Handle struct {
	Screen     tcell.Screen
	PitchAlign int
}

func (h Handle) Open(logger gfx.Logger) (gfx.Device, error) {
	logger = gfx.OrNop(logger)
	if h.Screen == nil {
		return nil, errNoScreen
	}
	cols, rows := h.Screen.Size()
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("termdev: screen is %dx%d cells", cols, rows)
	}
	s := &Surface{
		screen: h.Screen,
		img:    image.NewRGBA(image.Rect(0, 0, cols, rows*2)),
	}
	logger.Infof("term", "terminal open, %dx%d cells, surface=%dx%d", cols, rows, cols, rows*2)
	return &Device{handle: h, surface: s, logger: logger}, nil
}

// Surface is a draw.Image over the cell grid. Drawing only touches the
// backing image; Flush copies it to the screen.
type Surface struct {
	screen tcell.Screen
	img    *image.RGBA
}

func (s *Surface) ColorModel() color.Model     { return color.RGBAModel }
func (s *Surface) Bounds() image.Rectangle     { return s.img.Bounds() }
func (s *Surface) At(x, y int) color.Color     { return s.img.At(x, y) }
func (s *Surface) Set(x, y int, c color.Color) { s.img.Set(x, y, c) }

// Flush writes every cell and shows the screen.
func (s *Surface) Flush() error {
	b := s.img.Bounds()
	for y := 0; y < b.Dy(); y += 2 {
		for x := 0; x < b.Dx(); x++ {
			top := s.img.RGBAAt(x, y)
			bottom := s.img.RGBAAt(x, y+1)
			st := tcell.StyleDefault.
				Foreground(cellColor(top)).
				Background(cellColor(bottom))
			s.screen.SetContent(x, y/2, upperHalf, nil, st)
		}
	}
	s.screen.Show()
	return nil
}

func cellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

type Device struct {
	handle   Handle
	surface  *Surface
	logger   gfx.Logger
	released bool
}

func (d *Device) CreateTexture(dim int, usage gfx.Usage) (*gfx.Texture, error) {
	if d.released {
		return nil, gfx.ErrReleased
	}
	return gfx.NewTexture(dim, usage, d.handle.PitchAlign)
}

func (d *Device) UpdateTexture(src, dst *gfx.Texture) error {
	if d.released {
		return gfx.ErrReleased
	}
	return gfx.CopyTexture(src, dst)
}

func (d *Device) NewSprite() (gfx.Sprite, error) {
	if d.released {
		return nil, gfx.ErrReleased
	}
	return &sprite{dev: d}, nil
}

func (d *Device) Surface() draw.Image { return d.surface }

// Release leaves the screen itself running; the caller owns it.
func (d *Device) Release() error {
	if d.released {
		return nil
	}
	d.released = true
	d.surface.screen.Clear()
	d.logger.Infof("term", "terminal device released")
	return nil
}

type sprite struct {
	dev      *Device
	blit     gfx.Blitter
	released bool
}

func (s *sprite) Draw(tex *gfx.Texture, src image.Rectangle) error {
	if s.released || s.dev.released {
		return gfx.ErrReleased
	}
	// The frame reaches the screen on the loop's Flush, after the overlays
	// drawn straight onto the surface.
	return s.blit.Blit(s.dev.surface.img, tex, src)
}

func (s *sprite) Release() error {
	s.released = true
	return nil
}
