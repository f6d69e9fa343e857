// Package memdev is a headless graphics backend. The display surface is an
// *image.RGBA owned by the caller; faults can be injected to exercise the
// renderer's failure paths.
package memdev

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/rook-computer/overlay/internal/gfx"
)

// Faults configures simulated backend failures.
type Faults struct {
	// FailOpen makes device creation fail.
	FailOpen bool `json:"failOpen"`
	// FailTextureN fails the Nth CreateTexture call on a device (1-based).
	FailTextureN int `json:"failTextureN"`
	// LoseAfterPresents loses the device after this many successful
	// presents. Zero never loses it.
	LoseAfterPresents int `json:"loseAfterPresents"`
	// LoseNext loses the device on the next present, once.
	LoseNext bool `json:"loseNext"`
}

// Surface is the gfx.Handle for this backend. Set Faults directly before
// the surface is shared; use SetFaults afterwards.
type Surface struct {
	Image      *image.RGBA
	PitchAlign int
	Faults     Faults

	// Opens counts devices created on this surface.
	Opens int

	mu sync.Mutex
}

func (s *Surface) SetFaults(f Faults) {
	s.mu.Lock()
	s.Faults = f
	s.mu.Unlock()
}

func (s *Surface) CurrentFaults() Faults {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Faults
}

// OpenCount returns Opens under the surface lock.
func (s *Surface) OpenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Opens
}

// takeLoseNext reports and clears Faults.LoseNext.
func (s *Surface) takeLoseNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	lose := s.Faults.LoseNext
	s.Faults.LoseNext = false
	return lose
}

var errNoImage = errors.New("memdev: surface has no image")

// NewSurface returns a w x h surface.
func NewSurface(w, h int) *Surface {
	return &Surface{Image: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (s *Surface) Open(logger gfx.Logger) (gfx.Device, error) {
	logger = gfx.OrNop(logger)
	if s.Image == nil {
		return nil, errNoImage
	}
	s.mu.Lock()
	fail := s.Faults.FailOpen
	if !fail {
		s.Opens++
	}
	n := s.Opens
	s.mu.Unlock()
	if fail {
		logger.Errorf("memdev", "device creation refused (fault)")
		return nil, fmt.Errorf("memdev: create device: %w", gfx.ErrDeviceLost)
	}
	logger.Infof("memdev", "device %d open, surface=%dx%d", n, s.Image.Bounds().Dx(), s.Image.Bounds().Dy())
	return &Device{surface: s, logger: logger}, nil
}

// Device renders into Surface.Image.
type Device struct {
	surface  *Surface
	logger   gfx.Logger
	textures int
	presents int
	lost     bool
	released bool
}

// Lose marks the device lost; every later transfer or present fails.
func (d *Device) Lose() { d.lost = true }

// Presents returns how many frames reached the surface.
func (d *Device) Presents() int { return d.presents }

func (d *Device) CreateTexture(dim int, usage gfx.Usage) (*gfx.Texture, error) {
	if d.released {
		return nil, gfx.ErrReleased
	}
	d.textures++
	if n := d.surface.CurrentFaults().FailTextureN; n > 0 && n == d.textures {
		return nil, fmt.Errorf("memdev: allocate %s texture %d: out of video memory", usage, dim)
	}
	return gfx.NewTexture(dim, usage, d.surface.PitchAlign)
}

func (d *Device) UpdateTexture(src, dst *gfx.Texture) error {
	if d.released {
		return gfx.ErrReleased
	}
	if d.lost {
		return gfx.ErrDeviceLost
	}
	return gfx.CopyTexture(src, dst)
}

func (d *Device) NewSprite() (gfx.Sprite, error) {
	if d.released {
		return nil, gfx.ErrReleased
	}
	return &sprite{dev: d}, nil
}

func (d *Device) Surface() draw.Image { return d.surface.Image }

func (d *Device) Release() error {
	if d.released {
		return nil
	}
	d.released = true
	d.logger.Infof("memdev", "device released after %d presents", d.presents)
	return nil
}

type sprite struct {
	dev      *Device
	blit     gfx.Blitter
	released bool
}

func (s *sprite) Draw(tex *gfx.Texture, src image.Rectangle) error {
	d := s.dev
	switch {
	case s.released || d.released:
		return gfx.ErrReleased
	case d.lost:
		return gfx.ErrDeviceLost
	}
	if n := d.surface.CurrentFaults().LoseAfterPresents; (n > 0 && d.presents >= n) || d.surface.takeLoseNext() {
		d.lost = true
		d.logger.Errorf("memdev", "device lost after %d presents (fault)", d.presents)
		return gfx.ErrDeviceLost
	}
	if err := s.blit.Blit(d.surface.Image, tex, src); err != nil {
		return err
	}
	d.presents++
	return nil
}

func (s *sprite) Release() error {
	s.released = true
	return nil
}
