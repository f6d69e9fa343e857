//go:build linux

// Package fbdev presents frames on a Linux framebuffer device.
package fbdev

import (
	"fmt"
	"image"
	"image/draw"

	fb "github.com/gonutz/framebuffer"
	"github.com/rook-computer/overlay/internal/gfx"
	"github.com/rook-computer/overlay/internal/system"
)

const DefaultPath = "/dev/fb0"

// Handle names a framebuffer device node.
type Handle struct {
	Path string
	// GraphicsMode switches the console to KD_GRAPHICS and hides the
	// cursor while the device is open.
	GraphicsMode bool
	PitchAlign   int
}

func (h Handle) Open(logger gfx.Logger) (gfx.Device, error) {
	logger = gfx.OrNop(logger)
	path := h.Path
	if path == "" {
		path = DefaultPath
	}
	dev, err := fb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fbdev: open %s: %w", path, err)
	}
	bounds := dev.Bounds()
	logger.Infof("fb", "framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())
	if h.GraphicsMode {
		system.EnterGraphics(logger)
	}
	return &Device{handle: h, fb: dev, logger: logger}, nil
}

type Device struct {
	handle   Handle
	fb       *fb.Device
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

func (d *Device) Surface() draw.Image { return d.fb }

func (d *Device) Release() error {
	if d.released {
		return nil
	}
	d.released = true
	if d.handle.GraphicsMode {
		system.LeaveGraphics(d.logger)
	}
	if err := d.fb.Close(); err != nil {
		d.logger.Errorf("fb", "close framebuffer: %v", err)
		return fmt.Errorf("fbdev: close: %w", err)
	}
	d.logger.Infof("fb", "framebuffer closed")
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
	return s.blit.Blit(s.dev.fb, tex, src)
}

func (s *sprite) Release() error {
	s.released = true
	return nil
}
